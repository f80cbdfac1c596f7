package dates

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "canonical passthrough", raw: "2020-06-15", want: "2020-06-15"},
		{name: "us slash", raw: "06/15/2020", want: "2020-06-15"},
		{name: "us dash", raw: "06-15-2020", want: "2020-06-15"},
		{name: "eight raw digits", raw: "20200615", want: "2020-06-15"},
		{name: "pdf column wrap", raw: "2022-1 1-21", want: "2022-11-21"},
		{name: "single digit month and day", raw: "2020-6-1", want: "2020-06-01"},
		{name: "single digit slash", raw: "1/3/1990", want: "1990-01-03"},
		{name: "leading trailing space", raw: "  2019-03-05  ", want: "2019-03-05"},
		{name: "empty", raw: "", wantErr: true},
		{name: "sentinel", raw: "Not available in document", wantErr: true},
		{name: "seven digits", raw: "2020061", wantErr: true},
		{name: "nine digits", raw: "202006155", wantErr: true},
		{name: "nonsense", raw: "June fifteenth", wantErr: true},
		{name: "impossible month", raw: "2020-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeCanadian(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		// day-first wins when both orderings are structurally valid
		{name: "ambiguous prefers day first", raw: "05/03/2021", want: "2021-03-05"},
		{name: "day first dash", raw: "21-11-2022", want: "2022-11-21"},
		{name: "unambiguous month first", raw: "12/25/2020", want: "2020-12-25"},
		{name: "canonical passthrough", raw: "2021-03-05", want: "2021-03-05"},
		{name: "single digit day first", raw: "5/6/2015", want: "2015-06-05"},
		{name: "single digit both orders", raw: "1/3/1990", want: "1990-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCanadian(tt.raw)
			if err != nil {
				t.Fatalf("NormalizeCanadian(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCanadian(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("2020-06-15"); got != "06/15/2020" {
		t.Errorf("Display canonical = %q, want 06/15/2020", got)
	}
	if got := Display("not a date"); got != "not a date" {
		t.Errorf("Display non-date = %q, want passthrough", got)
	}
}
