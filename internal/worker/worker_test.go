package worker

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAnswerPayloadDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    answerPayload
		wantErr bool
	}{
		{
			name: "full payload",
			raw:  `{"response_id":"0d06abcd-9ae4-4f7e-a2a4-2c1a0c3f0f01","q_id":"5c2f8d2e-0a4b-4f14-9b3e-8f1d2a3b4c5d","answer":"True"}`,
			want: answerPayload{
				ResponseID: "0d06abcd-9ae4-4f7e-a2a4-2c1a0c3f0f01",
				QID:        "5c2f8d2e-0a4b-4f14-9b3e-8f1d2a3b4c5d",
				Answer:     "True",
			},
		},
		{
			name: "empty answer",
			raw:  `{"response_id":"0d06abcd-9ae4-4f7e-a2a4-2c1a0c3f0f01","q_id":"5c2f8d2e-0a4b-4f14-9b3e-8f1d2a3b4c5d","answer":""}`,
			want: answerPayload{
				ResponseID: "0d06abcd-9ae4-4f7e-a2a4-2c1a0c3f0f01",
				QID:        "5c2f8d2e-0a4b-4f14-9b3e-8f1d2a3b4c5d",
			},
		},
		{
			name:    "malformed json",
			raw:     `{"response_id":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got answerPayload
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected decode error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpiryWorkerLogsIntCount(t *testing.T) {
	// The expired count travels as an int from the service; the log
	// event must accept it without conversion.
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	w := NewExpiryWorker(nil, time.Minute, log)
	if w.interval != time.Minute {
		t.Errorf("interval = %v, want %v", w.interval, time.Minute)
	}

	expired := 3
	w.log.Info().Int("count", expired).Msg("Assignments expired")

	var entry struct {
		Count     int    `json:"count"`
		Component string `json:"component"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry.Count != expired {
		t.Errorf("count = %d, want %d", entry.Count, expired)
	}
	if entry.Component != "expiry_worker" {
		t.Errorf("component = %q, want %q", entry.Component, "expiry_worker")
	}
}
