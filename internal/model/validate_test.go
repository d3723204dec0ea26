package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name     string
		kind     PayloadKind
		body     string
		wantPath string
		wantErr  bool
	}{
		{
			name: "valid task",
			kind: PayloadTask,
			body: sampleTask,
		},
		{
			name: "valid task list",
			kind: PayloadTaskList,
			body: `[{"_id":"t1","title":"a","status":"todo","priority":"low","updatedAt":1,"assignedTo":null}]`,
		},
		{
			name: "valid project list",
			kind: PayloadProjectList,
			body: `[{"_id":"p1","name":"Website","color":"#3B82F6","taskCount":3}]`,
		},
		{
			name:     "bad status in list",
			kind:     PayloadTaskList,
			body:     `[{"_id":"t1","title":"a","status":"todo","priority":"low","updatedAt":1},{"_id":"t2","title":"b","status":"blocked","priority":"low","updatedAt":1}]`,
			wantPath: "[1].status",
			wantErr:  true,
		},
		{
			name:    "missing title",
			kind:    PayloadTask,
			body:    `{"_id":"t1","status":"todo","priority":"low","updatedAt":1}`,
			wantErr: true,
		},
		{
			name:     "timestamp as string",
			kind:     PayloadTask,
			body:     `{"_id":"t1","title":"a","status":"todo","priority":"low","updatedAt":"yesterday"}`,
			wantPath: "updatedAt",
			wantErr:  true,
		},
		{
			name:    "malformed json",
			kind:    PayloadProject,
			body:    `{"_id":`,
			wantErr: true,
		},
		{
			name:    "object where list expected",
			kind:    PayloadProjectList,
			body:    `{"_id":"p1","name":"x"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.kind, []byte(tt.body))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantPath == "" {
				return
			}
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			found := false
			for _, ve := range errs {
				if ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at path %q in %v", tt.wantPath, err)
			}
		})
	}
}

func TestValidatePayloadUnknownKind(t *testing.T) {
	err := ValidatePayload(PayloadKind("comment"), []byte(`{}`))
	if err == nil || !strings.Contains(err.Error(), "unknown payload kind") {
		t.Fatalf("got %v, want unknown payload kind error", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Path: "status", Err: errors.New("bad")},
		{Err: errors.New("root")},
	}
	if got := errs.Error(); got != "status: bad; root" {
		t.Errorf("got %q", got)
	}
}
