package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const samplePortfolio = `{
	"accounts": [
		{"id": 1, "name": "Super", "type": "accumulation", "balance": 400000, "riskProfile": "growth",
		 "holdings": {"CASH ACCOUNT": 20, "PIMCO GLOBAL BOND": 80}},
		{"id": 2, "name": "Pension", "type": "pension", "balance": 250000, "riskProfile": "balanced"}
	],
	"clientDetails": {"clientName": "Jo Citizen"}
}`

func TestReadSessionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(samplePortfolio), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := readSession(path, nil)
	if err != nil {
		t.Fatalf("readSession: %v", err)
	}
	accounts := s.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accounts))
	}
	if accounts[1].Holdings == nil {
		t.Error("missing holdings should load as an empty map")
	}
	if s.Client.ClientName != "Jo Citizen" {
		t.Errorf("client = %q", s.Client.ClientName)
	}
}

func TestReadSessionFromStdin(t *testing.T) {
	s, err := readSession("-", strings.NewReader(samplePortfolio))
	if err != nil {
		t.Fatalf("readSession: %v", err)
	}
	if len(s.Accounts()) != 2 {
		t.Errorf("accounts = %d, want 2", len(s.Accounts()))
	}
}

func TestReadSessionErrors(t *testing.T) {
	if _, err := readSession(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := readSession("-", strings.NewReader("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	dup := `{"accounts": [{"id": 1}, {"id": 1}]}`
	if _, err := readSession("-", strings.NewReader(dup)); err == nil {
		t.Error("expected error for duplicate account ids")
	}
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}

	if err := writeOutput("-", &stdout, write); err != nil {
		t.Fatalf("writeOutput stdout: %v", err)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q", stdout.String())
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutput(path, &stdout, write); err != nil {
		t.Fatalf("writeOutput file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("file = %q", data)
	}
}

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "CATALOGUE_URL", "SHEETS_SPREADSHEET_ID", "GOOGLE_CREDENTIALS_JSON"} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	argv := append([]string{"builder", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	if err := app.Run(argv); err != nil {
		t.Fatalf("builder %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestTotalsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(samplePortfolio), 0o600); err != nil {
		t.Fatal(err)
	}

	out := runApp(t, "totals", path)

	var got totalsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(got.Evaluation.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(got.Evaluation.Accounts))
	}
	// 400000 * (0.8 * 0.0049)
	if want := "1568"; !got.Evaluation.Accounts[0].TotalFees.Equal(decimal.RequireFromString(want)) {
		t.Errorf("account 1 fees = %s, want %s", got.Evaluation.Accounts[0].TotalFees, want)
	}
	if got.Validation[2].Valid {
		t.Error("account without holdings should not be valid")
	}
}

func TestExportAndReportCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(samplePortfolio), 0o600); err != nil {
		t.Fatal(err)
	}

	csvOut := runApp(t, "export", "--format", "csv", path)
	if !strings.HasPrefix(csvOut, "Account ID,Account,") {
		t.Errorf("unexpected csv output:\n%s", csvOut)
	}

	md := runApp(t, "report", "--markdown", path)
	if !strings.Contains(md, "# Portfolio Summary") || !strings.Contains(md, "**Client:** Jo Citizen") {
		t.Errorf("unexpected report:\n%s", md)
	}
}

func TestCatalogueCommand(t *testing.T) {
	out := runApp(t, "catalogue")
	if !strings.Contains(out, "Investments (defaults)") || !strings.Contains(out, "PIMCO GLOBAL BOND") {
		t.Errorf("unexpected catalogue output:\n%s", out)
	}
}

func TestTotalsCommandLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(samplePortfolio), 0o600); err != nil {
		t.Fatal(err)
	}

	out := runApp(t, "totals", "--load-model", "2", path)

	var got totalsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if total := got.Evaluation.Accounts[1].TotalAllocation; !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("account 2 allocation = %s, want 100 after loading its model", total)
	}
	if !got.Validation[2].Valid {
		t.Errorf("account 2 should be valid after loading its model: %+v", got.Validation[2])
	}
	// Account 1 keeps its own holdings.
	if want := "1568"; !got.Evaluation.Accounts[0].TotalFees.Equal(decimal.RequireFromString(want)) {
		t.Errorf("account 1 fees = %s, want %s", got.Evaluation.Accounts[0].TotalFees, want)
	}
}

func TestTotalsCommandLoadModelUnknownAccount(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "CATALOGUE_URL", "SHEETS_SPREADSHEET_ID", "GOOGLE_CREDENTIALS_JSON"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(samplePortfolio), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run([]string{"builder", "--env-file", filepath.Join(t.TempDir(), "none.env"),
		"totals", "--load-model", "9", path})
	if err == nil {
		t.Fatal("expected error for unknown account id")
	}
}
