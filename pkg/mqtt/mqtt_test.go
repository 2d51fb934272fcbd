package mqtt

import "testing"

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"vigil/modlog/123/warning_issued", "vigil/modlog/123/warning_issued", true},
		{"vigil/modlog/+/warning_issued", "vigil/modlog/123/warning_issued", true},
		{"vigil/modlog/+/warning_issued", "vigil/modlog/123/appeal_filed", false},
		{"vigil/modlog/#", "vigil/modlog/123/warning_issued", true},
		{"vigil/modlog/#", "vigil/modlog", true},
		{"vigil/#", "vigil/response/status", true},
		{"vigil/request/+", "vigil/request/status", true},
		{"vigil/request/+", "vigil/request/status/extra", false},
		{"vigil/request/status", "vigil/request", false},
		{"+/+/+", "a/b/c", true},
		{"+/+", "a/b/c", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.topic, func(t *testing.T) {
			if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
				t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
			}
		})
	}
}
