package checkgrp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/francefarms/bioestate/app/services/bioestate/handlers/debug/checkgrp"
	"github.com/francefarms/bioestate/foundation/ledger"
	"go.uber.org/zap"
)

func Test_Checks(t *testing.T) {
	lgr, err := ledger.Open(filepath.Join(t.TempDir(), "seasonal_log.csv"))
	if err != nil {
		t.Fatalf("Should be able to open the ledger : %v", err)
	}
	defer lgr.Close()

	cgh := checkgrp.Handlers{
		Build:  "test",
		Log:    zap.NewNop().Sugar(),
		Ledger: lgr,
	}

	w := httptest.NewRecorder()
	cgh.Readiness(w, httptest.NewRequest(http.MethodGet, "/debug/readiness", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Should be ready with a readable ledger : %v", w.Code)
	}

	w = httptest.NewRecorder()
	cgh.Liveness(w, httptest.NewRequest(http.MethodGet, "/debug/liveness", nil))

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Should be able to unmarshal the response : %v", err)
	}

	if got["build"] != "test" || got["ledger"] != lgr.Path() {
		t.Fatalf("Should report the build and ledger path : %v", got)
	}
}
