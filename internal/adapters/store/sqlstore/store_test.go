package sqlstore

import "testing"

func TestPlaceholderRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		numbered bool
		in       string
		want     string
	}{
		{"question marks kept", false, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = ? AND b = ?"},
		{"numbered", true, "UPDATE users SET name = ? WHERE id = ?", "UPDATE users SET name = $1 WHERE id = $2"},
		{"no placeholders", true, "SELECT COUNT(*) FROM users", "SELECT COUNT(*) FROM users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(nil, Dialect{Numbered: tt.numbered})
			if got := s.q(tt.in); got != tt.want {
				t.Errorf("q(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUpSection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markers", "CREATE TABLE a (x INT);", "CREATE TABLE a (x INT);"},
		{"up only", "-- +migrate Up\nCREATE TABLE a (x INT);", "\nCREATE TABLE a (x INT);"},
		{"up and down", "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;", "\nCREATE TABLE a (x INT);\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := upSection(tt.in); got != tt.want {
				t.Errorf("upSection() = %q, want %q", got, tt.want)
			}
		})
	}
}
