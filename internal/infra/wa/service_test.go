package wa

import (
	"context"
	"testing"
)

func TestCleanPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain digits", "919999900001", "919999900001", false},
		{"plus prefix", "+919999900001", "919999900001", false},
		{"spaces and dashes", "+91 99999-00001", "919999900001", false},
		{"too short", "12345", "", true},
		{"letters", "91abcde00001", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanPhoneNumber(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CleanPhoneNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSendTextRequiresConnection(t *testing.T) {
	svc := NewService("ignored.db", nil)
	if err := svc.SendText(context.Background(), "919999900001", "hi"); err == nil {
		t.Error("expected an error before Initialize/Connect")
	}
}
