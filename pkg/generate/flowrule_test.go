package generate

import "testing"

func TestDecodeFlowRule(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    FlowRule
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"switch_id":"s1","match_src_ip":"10.0.0.1","match_dst_ip":"10.0.0.2","action":"drop"}`,
			want: FlowRule{SwitchID: "s1", MatchSrcIP: "10.0.0.1", MatchDstIP: "10.0.0.2", Action: "drop"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"switch_id\":\"s1\",\"match_src_ip\":\"10.0.0.1\",\"match_dst_ip\":\"10.0.0.2\",\"action\":\"allow\"}\n```",
			want: FlowRule{SwitchID: "s1", MatchSrcIP: "10.0.0.1", MatchDstIP: "10.0.0.2", Action: "allow"},
		},
		{
			name:    "prose instead of json",
			raw:     "Sure! Here is the rule you asked for.",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFlowRule(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeFlowRule: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeFlowRule = %+v, want %+v", got, tt.want)
			}
		})
	}
}
