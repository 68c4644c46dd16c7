package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// fieldsim simulates telematics controllers on farm equipment. Each
// simulated machine publishes hour-meter readings on a fixed cadence and
// raises the occasional fault code, the same topics the API's ingest
// listener subscribes to.

type faultReport struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	EngineHours float64 `json:"engine_hours"`
}

type hoursReading struct {
	EngineHours float64 `json:"engine_hours"`
}

// Fault codes a machine controller plausibly raises in the field.
var faults = []faultReport{
	{Code: "P0217", Description: "Engine coolant over temperature", Severity: "high"},
	{Code: "P0087", Description: "Fuel rail pressure too low", Severity: "medium"},
	{Code: "P2563", Description: "Turbocharger boost control position sensor", Severity: "medium"},
	{Code: "HYD-12", Description: "Hydraulic fluid level low", Severity: "high"},
	{Code: "BAT-03", Description: "Battery voltage low at cranking", Severity: "low"},
	{Code: "PTO-07", Description: "PTO clutch slip detected", Severity: "critical"},
}

type machine struct {
	equipmentID string
	hours       float64
}

func (m *machine) tick(client mqtt.Client, faultChance float64) {
	// Hour meter advances while the machine is working.
	m.hours += 0.25 + rand.Float64()*0.5

	payload, _ := json.Marshal(hoursReading{EngineHours: m.hours})
	topic := fmt.Sprintf("equipment/%s/hours", m.equipmentID)
	client.Publish(topic, 1, false, payload)

	if rand.Float64() < faultChance {
		fault := faults[rand.Intn(len(faults))]
		fault.EngineHours = m.hours
		payload, _ := json.Marshal(fault)
		topic := fmt.Sprintf("equipment/%s/fault", m.equipmentID)
		client.Publish(topic, 1, false, payload)
		log.WithFields(log.Fields{
			"equipment_id": m.equipmentID,
			"code":         fault.Code,
			"severity":     fault.Severity,
		}).Info("published fault")
	}
}

func main() {
	_ = godotenv.Load()

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	// Comma-separated equipment IDs to simulate, typically the hex IDs
	// of equipment documents created through the API.
	idsEnv := os.Getenv("FIELDSIM_EQUIPMENT_IDS")
	if idsEnv == "" {
		log.Fatal("FIELDSIM_EQUIPMENT_IDS is required")
	}

	interval := 10 * time.Second
	if s := os.Getenv("FIELDSIM_INTERVAL"); s != "" {
		if parsed, err := time.ParseDuration(s); err == nil {
			interval = parsed
		}
	}

	faultChance := 0.05
	if s := os.Getenv("FIELDSIM_FAULT_CHANCE"); s != "" {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil && parsed >= 0 && parsed <= 1 {
			faultChance = parsed
		}
	}

	var machines []*machine
	for _, id := range strings.Split(idsEnv, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		machines = append(machines, &machine{
			equipmentID: id,
			hours:       float64(rand.Intn(5000)),
		})
	}
	if len(machines) == 0 {
		log.Fatal("no equipment IDs to simulate")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("equiptrack-fieldsim").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("failed to connect to broker")
	}
	defer client.Disconnect(250)

	log.WithFields(log.Fields{
		"broker":   broker,
		"machines": len(machines),
		"interval": interval.String(),
	}).Info("fieldsim running")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			for _, m := range machines {
				m.tick(client, faultChance)
			}
		case <-stop:
			log.Info("fieldsim stopping")
			return
		}
	}
}
