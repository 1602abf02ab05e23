package handlers

import (
	"testing"
	"time"
)

func TestParseDateParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 timestamp",
			value: "2024-01-01T15:04:05Z",
			want:  time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "bare date",
			value: "2024-01-01",
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateParam(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
