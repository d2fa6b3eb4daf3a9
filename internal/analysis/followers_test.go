package analysis

import "testing"

func TestFollowerHandles(t *testing.T) {
	tests := []struct {
		name      string
		collected []string
		want      []string
	}{
		{"empty", nil, nil},
		{"only navigation links", []string{"explore", "reels", "direct", "someone"}, nil},
		{
			"navigation links trimmed",
			[]string{"explore", "reels", "direct", "someone", "fan1", "fan2"},
			[]string{"fan1", "fan2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := followerHandles(tt.collected)
			if len(got) != len(tt.want) {
				t.Fatalf("followerHandles(%v) = %v, want %v", tt.collected, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("followerHandles(%v)[%d] = %q, want %q", tt.collected, i, got[i], tt.want[i])
				}
			}
		})
	}
}
