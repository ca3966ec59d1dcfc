package controllers_test

import (
	"bytes"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func TestExportSurvey(t *testing.T) {
	e := setupTest(t)
	e.register(t, "alice", "alice@example.com", "secret123")
	e.register(t, "mallory", "mallory@example.com", "secret123")
	aliceTok := e.login(t, "alice", "secret123")
	malloryTok := e.login(t, "mallory", "secret123")

	id := e.createSurvey(t, aliceTok, "Exported", "", []string{"Q1", "Q2"})
	w := e.do(t, "POST", surveyPath(id, "/take"), "", gin.H{
		"participant_name":  "Ivan",
		"participant_email": "ivan@example.com",
		"answers":           []string{"A1", "A2"},
	})
	if w.Code != 200 {
		t.Fatalf("submit: status %d", w.Code)
	}

	w = e.do(t, "GET", surveyPath(id, "/export"), aliceTok, nil)
	if w.Code != 200 {
		t.Fatalf("export: status %d, body %s", w.Code, w.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 participant row, got %d rows", len(rows))
	}
	header := rows[0]
	if header[0] != "Participant" || header[3] != "Q1" || header[4] != "Q2" {
		t.Fatalf("unexpected header: %v", header)
	}
	row := rows[1]
	if row[0] != "Ivan" || row[1] != "ivan@example.com" || row[3] != "A1" || row[4] != "A2" {
		t.Fatalf("unexpected data row: %v", row)
	}

	// Export is owner-only and hides the survey's existence.
	w = e.do(t, "GET", surveyPath(id, "/export"), malloryTok, nil)
	if w.Code != 404 {
		t.Fatalf("non-owner export: expected 404, got %d", w.Code)
	}
}
