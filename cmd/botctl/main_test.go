package main

import (
	"reflect"
	"testing"
)

func TestRequest(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantTopic   string
		wantPayload map[string]interface{}
		wantErr     bool
	}{
		{"get prefix", []string{"prefix"}, "prefix", nil, false},
		{"set prefix", []string{"prefix", "?"}, "prefix", map[string]interface{}{"prefix": "?"}, false},
		{"modules", []string{"modules"}, "modules", nil, false},
		{"status", []string{"status", "extra"}, "status", nil, false},
		{"unknown", []string{"reboot"}, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, payload, err := request(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("request(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", topic, tt.wantTopic)
			}
			if !reflect.DeepEqual(payload, tt.wantPayload) {
				t.Errorf("payload = %v, want %v", payload, tt.wantPayload)
			}
		})
	}
}
