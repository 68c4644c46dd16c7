package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	faultTopic = "equipment/+/fault"
	hoursTopic = "equipment/+/hours"

	opTimeout = 5 * time.Second
)

// FaultReport is the payload a field device publishes on
// equipment/<id>/fault when its controller raises a fault code.
type FaultReport struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	EngineHours float64 `json:"engine_hours"`
}

// HoursReading is the payload published on equipment/<id>/hours with the
// current hour-meter value.
type HoursReading struct {
	EngineHours float64 `json:"engine_hours"`
}

// Listener subscribes to field-device topics and files issues and
// hour-meter updates from them.
type Listener struct {
	client    mqtt.Client
	issues    db.IssueCollection
	equipment db.EquipmentCollection
}

// NewListener creates a listener for the given broker. The connection is
// not opened until Start.
func NewListener(brokerURL, clientID string, issues db.IssueCollection, equipment db.EquipmentCollection) *Listener {
	l := &Listener{issues: issues, equipment: equipment}
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})
	l.client = mqtt.NewClient(opts)
	return l
}

// Start connects to the broker and subscribes to the fault and hours
// topics.
func (l *Listener) Start() error {
	if token := l.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	if token := l.client.Subscribe(faultTopic, 1, l.handleFault); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", faultTopic, token.Error())
	}
	if token := l.client.Subscribe(hoursTopic, 1, l.handleHours); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", hoursTopic, token.Error())
	}
	log.Info("mqtt ingest listening")
	return nil
}

// Stop disconnects from the broker.
func (l *Listener) Stop() {
	l.client.Disconnect(250)
}

func (l *Listener) handleFault(_ mqtt.Client, msg mqtt.Message) {
	equipmentID, err := equipmentIDFromTopic(msg.Topic())
	if err != nil {
		log.WithField("topic", msg.Topic()).Warn("dropping fault with bad topic")
		return
	}

	issue, err := IssueFromFault(equipmentID, msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("dropping malformed fault report")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := l.issues.InsertIssue(ctx, issue); err != nil {
		log.WithError(err).Error("failed to file issue from fault report")
		return
	}
	log.WithFields(log.Fields{
		"equipment_id": equipmentID,
		"ref":          issue.Ref,
		"severity":     issue.Severity,
	}).Info("filed issue from fault report")

	var report FaultReport
	if json.Unmarshal(msg.Payload(), &report) == nil && report.EngineHours > 0 {
		if err := l.equipment.UpdateEngineHours(ctx, equipmentID, report.EngineHours); err != nil {
			log.WithError(err).WithField("equipment_id", equipmentID).Warn("failed to update engine hours")
		}
	}
}

func (l *Listener) handleHours(_ mqtt.Client, msg mqtt.Message) {
	equipmentID, err := equipmentIDFromTopic(msg.Topic())
	if err != nil {
		log.WithField("topic", msg.Topic()).Warn("dropping reading with bad topic")
		return
	}

	var reading HoursReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("dropping malformed hours reading")
		return
	}
	if reading.EngineHours <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := l.equipment.UpdateEngineHours(ctx, equipmentID, reading.EngineHours); err != nil {
		log.WithError(err).WithField("equipment_id", equipmentID).Warn("failed to update engine hours")
	}
}

// equipmentIDFromTopic extracts the equipment ID from an
// equipment/<id>/<kind> topic.
func equipmentIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "equipment" || parts[1] == "" {
		return "", fmt.Errorf("unexpected topic %q", topic)
	}
	return parts[1], nil
}

// IssueFromFault builds an issue from a raw fault report payload. An
// unknown severity defaults to medium rather than dropping the fault.
func IssueFromFault(equipmentID string, payload []byte) (models.Issue, error) {
	var report FaultReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return models.Issue{}, fmt.Errorf("unmarshal fault report: %w", err)
	}
	if report.Code == "" {
		return models.Issue{}, fmt.Errorf("fault report missing code")
	}

	severity := report.Severity
	if !models.IsValidSeverity(severity) {
		severity = models.SeverityMedium
	}

	now := time.Now()
	return models.Issue{
		ID:          primitive.NewObjectID(),
		Ref:         models.NewIssueRef(),
		EquipmentID: equipmentID,
		Title:       "Fault " + report.Code,
		Description: report.Description,
		Severity:    severity,
		Status:      models.IssueStatusOpen,
		Source:      models.IssueSourceTelemetry,
		ReportedBy:  "field-device",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
