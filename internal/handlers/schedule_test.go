package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmops/equiptrack/internal/db"
	"github.com/farmops/equiptrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var scheduleTestNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func newScheduleTestHandler(schedules *MockScheduleCollection, equipment *MockEquipmentCollection, templates *MockTemplateCollection) *ScheduleHandler {
	h := NewScheduleHandler(schedules, equipment, templates)
	h.now = func() time.Time { return scheduleTestNow }
	return h
}

func TestScheduleHandler_Create(t *testing.T) {
	t.Run("creates schedule", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		equipment := new(MockEquipmentCollection)
		h := newScheduleTestHandler(schedules, equipment, new(MockTemplateCollection))

		equipmentID := primitive.NewObjectID().Hex()
		equipment.On("FindEquipmentByID", mock.Anything, equipmentID).Return(&models.Equipment{Name: "Tractor 12"}, nil)
		schedules.On("InsertSchedule", mock.Anything, mock.AnythingOfType("models.Schedule")).Return(nil)

		body, _ := json.Marshal(models.ScheduleRequest{
			EquipmentID:  equipmentID,
			TaskName:     "Oil change",
			IntervalDays: 30,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var view models.ScheduleView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "Oil change", view.TaskName)
		// Never serviced yet, so the new schedule is immediately past due.
		assert.Equal(t, models.StatusPastDue, view.Status)
		assert.Nil(t, view.DaysUntilDue)
		schedules.AssertExpectations(t)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		h := newScheduleTestHandler(new(MockScheduleCollection), new(MockEquipmentCollection), new(MockTemplateCollection))

		body, _ := json.Marshal(map[string]interface{}{
			"equipment_id":  primitive.NewObjectID().Hex(),
			"task_name":     "Oil change",
			"interval_days": 0,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects negative interval", func(t *testing.T) {
		h := newScheduleTestHandler(new(MockScheduleCollection), new(MockEquipmentCollection), new(MockTemplateCollection))

		body, _ := json.Marshal(map[string]interface{}{
			"equipment_id":  primitive.NewObjectID().Hex(),
			"task_name":     "Oil change",
			"interval_days": -5,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown equipment", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		equipment := new(MockEquipmentCollection)
		h := newScheduleTestHandler(schedules, equipment, new(MockTemplateCollection))

		equipmentID := primitive.NewObjectID().Hex()
		equipment.On("FindEquipmentByID", mock.Anything, equipmentID).Return(nil, db.ErrNotFound)

		body, _ := json.Marshal(models.ScheduleRequest{
			EquipmentID:  equipmentID,
			TaskName:     "Oil change",
			IntervalDays: 30,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		schedules.AssertNotCalled(t, "InsertSchedule", mock.Anything, mock.Anything)
	})
}

func TestScheduleHandler_ApplyTemplate(t *testing.T) {
	schedules := new(MockScheduleCollection)
	equipment := new(MockEquipmentCollection)
	templates := new(MockTemplateCollection)
	h := newScheduleTestHandler(schedules, equipment, templates)

	equipmentID := primitive.NewObjectID().Hex()
	templateID := primitive.NewObjectID()
	equipment.On("FindEquipmentByID", mock.Anything, equipmentID).Return(&models.Equipment{Name: "Combine 3"}, nil)
	templates.On("FindTemplateByID", mock.Anything, templateID.Hex()).Return(&models.MaintenanceTemplate{
		ID:           templateID,
		Name:         "250h engine service",
		IntervalDays: 60,
	}, nil)

	var inserted models.Schedule
	schedules.On("InsertSchedule", mock.Anything, mock.AnythingOfType("models.Schedule")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.Schedule) }).
		Return(nil)

	body, _ := json.Marshal(models.ApplyTemplateRequest{TemplateID: templateID.Hex()})
	req := httptest.NewRequest(http.MethodPost, "/api/equipment/"+equipmentID+"/schedules", bytes.NewBuffer(body))
	req.SetPathValue("id", equipmentID)
	w := httptest.NewRecorder()
	h.ApplyTemplate(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "250h engine service", inserted.TaskName)
	assert.Equal(t, 60, inserted.IntervalDays)
	assert.Equal(t, equipmentID, inserted.EquipmentID)
	assert.Equal(t, templateID.Hex(), inserted.TemplateID)
}

func TestScheduleHandler_List(t *testing.T) {
	lastRecent := scheduleTestNow.AddDate(0, 0, -5)
	lastDueSoon := scheduleTestNow.AddDate(0, 0, -25)
	lastOverdue := scheduleTestNow.AddDate(0, 0, -40)

	stored := []models.Schedule{
		{ID: primitive.NewObjectID(), TaskName: "Oil change", IntervalDays: 30, LastCompleted: &lastRecent},
		{ID: primitive.NewObjectID(), TaskName: "Grease fittings", IntervalDays: 30, LastCompleted: &lastDueSoon},
		{ID: primitive.NewObjectID(), TaskName: "Air filter", IntervalDays: 30, LastCompleted: &lastOverdue},
		{ID: primitive.NewObjectID(), TaskName: "Coolant flush", IntervalDays: 365},
	}

	t.Run("derives status for each schedule", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))
		schedules.On("FindSchedules", mock.Anything, bson.M{}).Return(stored, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var views []models.ScheduleView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		assert.Len(t, views, 4)

		byName := map[string]models.ScheduleView{}
		for _, v := range views {
			byName[v.TaskName] = v
		}
		assert.Equal(t, models.StatusOnSchedule, byName["Oil change"].Status)
		assert.Equal(t, models.StatusComingDue, byName["Grease fittings"].Status)
		assert.Equal(t, models.StatusPastDue, byName["Air filter"].Status)
		assert.Equal(t, models.StatusPastDue, byName["Coolant flush"].Status)
	})

	t.Run("filters by derived status", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))
		schedules.On("FindSchedules", mock.Anything, bson.M{}).Return(stored, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/schedules?status=past_due", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var views []models.ScheduleView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		assert.Len(t, views, 2)
		for _, v := range views {
			assert.Equal(t, models.StatusPastDue, v.Status)
		}
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		h := newScheduleTestHandler(new(MockScheduleCollection), new(MockEquipmentCollection), new(MockTemplateCollection))

		req := httptest.NewRequest(http.MethodGet, "/api/schedules?status=overdue", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes equipment filter to storage", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))
		schedules.On("FindSchedules", mock.Anything, bson.M{"equipment_id": "abc"}).Return([]models.Schedule{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/schedules?equipment_id=abc", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		schedules.AssertExpectations(t)
	})
}

func TestScheduleHandler_Complete(t *testing.T) {
	t.Run("logs completion and returns fresh status", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		equipment := new(MockEquipmentCollection)
		h := newScheduleTestHandler(schedules, equipment, new(MockTemplateCollection))

		id := primitive.NewObjectID()
		equipmentID := primitive.NewObjectID().Hex()
		overdue := scheduleTestNow.AddDate(0, 0, -45)
		schedules.On("FindScheduleByID", mock.Anything, id.Hex()).Return(&models.Schedule{
			ID:            id,
			EquipmentID:   equipmentID,
			TaskName:      "Oil change",
			IntervalDays:  30,
			LastCompleted: &overdue,
		}, nil)

		var logged models.CompletionRecord
		schedules.On("LogCompletion", mock.Anything, id.Hex(), mock.AnythingOfType("models.CompletionRecord")).
			Run(func(args mock.Arguments) { logged = args.Get(2).(models.CompletionRecord) }).
			Return(nil)
		equipment.On("UpdateEngineHours", mock.Anything, equipmentID, 1250.5).Return(nil)

		body, _ := json.Marshal(models.CompleteRequest{
			Technician:  "R. Alvarez",
			Notes:       "15W-40, new filter",
			EngineHours: 1250.5,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/schedules/"+id.Hex()+"/complete", bytes.NewBuffer(body))
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.Complete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, scheduleTestNow, logged.CompletedAt)
		assert.Equal(t, "R. Alvarez", logged.Technician)

		var view models.ScheduleView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		// Just completed with a 30-day interval: comfortably on schedule.
		assert.Equal(t, models.StatusOnSchedule, view.Status)
		assert.Len(t, view.History, 1)
		equipment.AssertExpectations(t)
	})

	t.Run("empty body logs a completion now", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))

		id := primitive.NewObjectID()
		schedules.On("FindScheduleByID", mock.Anything, id.Hex()).Return(&models.Schedule{
			ID:           id,
			EquipmentID:  primitive.NewObjectID().Hex(),
			TaskName:     "Grease fittings",
			IntervalDays: 14,
		}, nil)
		schedules.On("LogCompletion", mock.Anything, id.Hex(), mock.AnythingOfType("models.CompletionRecord")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/schedules/"+id.Hex()+"/complete", nil)
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.Complete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view models.ScheduleView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.NotNil(t, view.LastCompleted)
		assert.Equal(t, models.StatusOnSchedule, view.Status)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		schedules := new(MockScheduleCollection)
		h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))

		id := primitive.NewObjectID().Hex()
		schedules.On("FindScheduleByID", mock.Anything, id).Return(nil, db.ErrNotFound)

		req := httptest.NewRequest(http.MethodPost, "/api/schedules/"+id+"/complete", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.Complete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestScheduleHandler_Get(t *testing.T) {
	schedules := new(MockScheduleCollection)
	h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))

	id := primitive.NewObjectID()
	last := scheduleTestNow.AddDate(0, 0, -23)
	schedules.On("FindScheduleByID", mock.Anything, id.Hex()).Return(&models.Schedule{
		ID:            id,
		TaskName:      "Grease fittings",
		IntervalDays:  30,
		LastCompleted: &last,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schedules/"+id.Hex(), nil)
	req.SetPathValue("id", id.Hex())
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var view models.ScheduleView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, models.StatusComingDue, view.Status)
	assert.NotNil(t, view.DaysUntilDue)
	assert.Equal(t, 7, *view.DaysUntilDue)
}

func TestScheduleHandler_Delete(t *testing.T) {
	schedules := new(MockScheduleCollection)
	h := newScheduleTestHandler(schedules, new(MockEquipmentCollection), new(MockTemplateCollection))

	id := primitive.NewObjectID().Hex()
	schedules.On("DeleteSchedule", mock.Anything, id).Return(db.ErrNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/schedules/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
