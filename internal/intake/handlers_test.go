package intake_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/common"
	"github.com/fixly-labs/backend-fixly/internal/intake"
)

type fakeRecorder struct {
	leads    []intake.LeadInput
	checkins []intake.CheckInInput
	fail     bool
}

func (f *fakeRecorder) InsertLead(_ context.Context, in intake.LeadInput) (intake.Lead, error) {
	if f.fail {
		return intake.Lead{}, errors.New("database unavailable")
	}
	f.leads = append(f.leads, in)
	return intake.Lead{ID: int64(len(f.leads)), CreatedAt: time.Now(), LeadInput: in}, nil
}

func (f *fakeRecorder) InsertCheckIn(_ context.Context, in intake.CheckInInput) (intake.CheckIn, error) {
	if f.fail {
		return intake.CheckIn{}, errors.New("database unavailable")
	}
	f.checkins = append(f.checkins, in)
	return intake.CheckIn{ID: int64(len(f.checkins)), CreatedAt: time.Now(), CheckInInput: in}, nil
}

type fakeVerifier struct {
	badBrand   string
	badService string
}

func (f *fakeVerifier) VerifyChain(_ context.Context, _, brandID, _, serviceID string) error {
	if f.badBrand != "" && brandID == f.badBrand {
		return &common.AppError{Code: "BAD_REQUEST", Message: "brand does not belong to the selected device type", HTTPStatus: http.StatusBadRequest}
	}
	if f.badService != "" && serviceID == f.badService {
		return &common.AppError{Code: "BAD_REQUEST", Message: "service is not offered for the selected device type", HTTPStatus: http.StatusBadRequest}
	}
	return nil
}

func newIntakeRouter(t *testing.T, recorder intake.Recorder, chains intake.ChainVerifier) *chi.Mux {
	t.Helper()
	svc, err := intake.NewService(intake.ServiceConfig{Recorder: recorder, Chains: chains})
	require.NoError(t, err)
	handler := intake.NewHandler(intake.HandlerConfig{Service: svc, Logger: zerolog.Nop()})
	r := chi.NewRouter()
	r.Post("/api/v1/intake/leads", handler.CreateLead)
	r.Post("/api/v1/intake/checkins", handler.CreateCheckIn)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validLead() map[string]string {
	return map[string]string{
		"name":         "Asha Verma",
		"phone":        "9876543210",
		"email":        "asha@example.com",
		"deviceTypeId": "mobile",
		"brandId":      "apple",
		"modelId":      "iphone-13",
		"issue":        "Screen cracked after a fall, touch still works.",
	}
}

func TestCreateLead(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newIntakeRouter(t, recorder, &fakeVerifier{})

	rec := postJSON(t, router, "/api/v1/intake/leads", validLead())
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data intake.Lead `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(1), body.Data.ID)
	require.Equal(t, "Asha Verma", body.Data.Name)
	require.Len(t, recorder.leads, 1)
}

func TestCreateLeadValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing name", func(m map[string]string) { delete(m, "name") }},
		{"short phone", func(m map[string]string) { m["phone"] = "12" }},
		{"bad email", func(m map[string]string) { m["email"] = "not-an-email" }},
		{"missing device type", func(m map[string]string) { delete(m, "deviceTypeId") }},
		{"issue too short", func(m map[string]string) { m["issue"] = "ok" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &fakeRecorder{}
			router := newIntakeRouter(t, recorder, &fakeVerifier{})
			payload := validLead()
			tc.mutate(payload)

			rec := postJSON(t, router, "/api/v1/intake/leads", payload)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Empty(t, recorder.leads)
		})
	}
}

func TestCreateLeadRejectsBrokenChain(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newIntakeRouter(t, recorder, &fakeVerifier{badBrand: "apple"})

	rec := postJSON(t, router, "/api/v1/intake/leads", validLead())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, recorder.leads)
}

func TestCreateLeadRejectsForeignService(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newIntakeRouter(t, recorder, &fakeVerifier{badService: "keyboard-swap"})

	payload := validLead()
	payload["serviceId"] = "keyboard-swap"
	rec := postJSON(t, router, "/api/v1/intake/leads", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, recorder.leads)
}

func TestCreateLeadStoreFailure(t *testing.T) {
	router := newIntakeRouter(t, &fakeRecorder{fail: true}, &fakeVerifier{})
	rec := postJSON(t, router, "/api/v1/intake/leads", validLead())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateCheckIn(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newIntakeRouter(t, recorder, &fakeVerifier{})

	rec := postJSON(t, router, "/api/v1/intake/checkins", map[string]string{
		"name":         "Ravi Kumar",
		"phone":        "9123456780",
		"deviceTypeId": "laptop",
		"brandId":      "dell",
		"notes":        "No charger brought in.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, recorder.checkins, 1)
	require.Equal(t, "Ravi Kumar", recorder.checkins[0].Name)
}

func TestCreateCheckInValidation(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newIntakeRouter(t, recorder, &fakeVerifier{})

	rec := postJSON(t, router, "/api/v1/intake/checkins", map[string]string{
		"name": "R", "phone": "9123456780", "deviceTypeId": "laptop",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, recorder.checkins)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	router := newIntakeRouter(t, &fakeRecorder{}, &fakeVerifier{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake/leads", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
