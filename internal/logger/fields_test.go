package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldHelpersSkipBlanks(t *testing.T) {
	tests := []struct {
		name   string
		fields []zap.Field
		want   map[string]string
	}{
		{
			name:   "trimmed pairs",
			fields: StringFields(StringField{Key: " stage ", Value: " scoring "}, StringField{Key: "empty", Value: "  "}, StringField{Key: " ", Value: "orphan"}),
			want:   map[string]string{"stage": "scoring"},
		},
		{
			name:   "provider and model",
			fields: CommonFields(" gemini ", "gemini-2.5-flash"),
			want:   map[string]string{FieldProvider: "gemini", FieldModel: "gemini-2.5-flash"},
		},
		{
			name:   "session without category",
			fields: SessionFields("7f3c", " mentor ", ""),
			want:   map[string]string{FieldSession: "7f3c", FieldPersonality: "mentor"},
		},
		{
			name:   "nothing known yet",
			fields: SessionFields("", "", ""),
			want:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[string]string, len(tt.fields))
			for _, f := range tt.fields {
				got[f.Key] = f.String
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("field %s: expected %q, got %q", k, v, got[k])
				}
			}
		})
	}
}

func TestSessionLoggerCarriesFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	log := WithSession(zap.New(core), "s-1", "hr", "HR")
	WithCommonFields(log, "gemini", "model-x").Debug("ideal answer generated")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	for key, want := range map[string]string{
		FieldSession:     "s-1",
		FieldPersonality: "hr",
		FieldCategory:    "HR",
		FieldProvider:    "gemini",
		FieldModel:       "model-x",
	} {
		if ctx[key] != want {
			t.Fatalf("field %s: expected %q, got %v", key, want, ctx[key])
		}
	}
}

func TestNilLoggerFallsBackToNop(t *testing.T) {
	for _, log := range []*zap.Logger{
		WithFields(nil, zap.String("batch", "b")),
		WithCommonFields(nil, "gemini", "m"),
		WithSession(nil, "s", "mentor", "IT"),
	} {
		if log == nil {
			t.Fatalf("expected fallback logger when nil provided")
		}
		log.Info("scoring batch finished")
	}
}
