package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	glmerrors "github.com/YuminosukeSato/glmnet/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", ErrorCodeKey, ErrorConvergence)
	testLogger.Error("error message", fmt.Errorf("binding failed"), AlphaKey, 1.0)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty string")
	}
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "binding failed") {
		t.Error("Expected leading error to be stored under ErrAttrKey")
	}
	if !testLogger.ContainsField(AlphaKey, 1.0) {
		t.Error("Expected alpha field after the error value")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "LogisticRegression",
		ComponentKey, "glmnet",
	)
	contextLogger.Info("fit finished", NLambdaKey, 100)

	if !testLogger.ContainsField(ModelNameKey, "LogisticRegression") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(NLambdaKey, 100.0) {
		t.Error("nlambda field not found")
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}

	testLogger.Debug("hidden")
	testLogger.Info("shown")

	if testLogger.ContainsMessage("hidden") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("shown") {
		t.Error("Info message should appear when level is Info")
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("dropped")
	logger.With(ModelNameKey, "LogisticRegression").Info("fit finished", SamplesKey, 800)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["message"] != "fit finished" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if lines[0][ModelNameKey] != "LogisticRegression" {
		t.Errorf("%s = %v", ModelNameKey, lines[0][ModelNameKey])
	}
	if lines[0][SamplesKey] != 800.0 {
		t.Errorf("%s = %v", SamplesKey, lines[0][SamplesKey])
	}
	if lines[0]["level"] != "info" {
		t.Errorf("level = %v", lines[0]["level"])
	}

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
}

func TestZerologLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("binding failed", glmerrors.NewValueError("Fit", "boom"), AlphaKey, 0.5)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(fmt.Sprint(lines[0]["error"]), "boom") {
		t.Errorf("error field = %v", lines[0]["error"])
	}
	if lines[0][AlphaKey] != 0.5 {
		t.Errorf("%s = %v", AlphaKey, lines[0][AlphaKey])
	}
}

func TestWarningsRouteThroughProvider(t *testing.T) {
	var buf bytes.Buffer
	prev := SetLoggerProvider(NewZerologProvider(&buf, LevelDebug))
	defer SetLoggerProvider(prev)

	glmerrors.Warn(glmerrors.NewConvergenceWarning("saga", 1000, "max_iter reached"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 warning line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["algorithm"] != "saga" {
		t.Errorf("expected embedded warning fields, got %v", lines[0])
	}
	if lines[0][ComponentKey] != "warnings" {
		t.Errorf("%s = %v", ComponentKey, lines[0][ComponentKey])
	}
}

func TestZerologProviderSetLevel(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelWarn)

	p.GetLoggerWithName("glmnet").Info("hidden")
	p.SetLevel(LevelInfo)
	p.GetLoggerWithName("glmnet").Info("shown")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestSlogProvider(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewSlogProvider(slog.New(handler), LevelInfo)

	logger := p.GetLoggerWithName("glmnet.binding")
	logger.Debug("hidden")
	logger.Error("solve failed", glmerrors.NewValueError("Fit", "boom"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0][ComponentKey] != "glmnet.binding" {
		t.Errorf("%s = %v", ComponentKey, lines[0][ComponentKey])
	}
	if _, ok := lines[0][StacktraceAttrKey]; !ok {
		t.Errorf("expected %s attribute, got %v", StacktraceAttrKey, lines[0])
	}

	p.SetLevel(LevelDebug)
	if !logger.Enabled(context.Background(), LevelDebug) {
		t.Error("SetLevel should take effect on existing loggers")
	}
}

func TestSetupJSONLogger(t *testing.T) {
	prevDefault := slog.Default()
	prev := SetLoggerProvider(NewZerologProvider(&bytes.Buffer{}, LevelWarn))
	defer func() {
		slog.SetDefault(prevDefault)
		SetLoggerProvider(prev)
	}()

	if err := setupJSONLogger(&bytes.Buffer{}, "verbose"); err == nil {
		t.Fatal("expected error for an unknown level")
	}

	var buf bytes.Buffer
	if err := setupJSONLogger(&buf, "warn"); err != nil {
		t.Fatal(err)
	}
	logger := GetLoggerWithName("example.logistic_net")
	logger.Info("hidden")
	logger.Warn("few samples", SamplesKey, 3)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	line := lines[0]
	if line["severity"] != "WARN" || line["message"] != "few samples" {
		t.Errorf("unexpected Cloud Logging keys: %v", line)
	}
	if _, ok := line["logging.googleapis.com/sourceLocation"]; !ok {
		t.Errorf("expected source location, got %v", line)
	}
	if line[ComponentKey] != "example.logistic_net" {
		t.Errorf("%s = %v", ComponentKey, line[ComponentKey])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" || Level(99).String() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}
