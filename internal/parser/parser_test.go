package parser

import (
	"errors"
	"strings"
	"testing"
)

const validLine = `1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] ` +
	`"GET /api/v2/banner/25019354 HTTP/1.1" 200 927 "-" ` +
	`"Lynx/2.8.8dev.9 libwww-FM/2.14 SSL-MM/1.4.1 GNUTLS/2.10.5" "-" ` +
	`"1498697422-2190034393-4708-9752759" "dc7161be3" 0.390`

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantURL  string
		wantTime float64
		wantErr  bool
	}{
		{
			name:     "valid line",
			line:     validLine,
			wantURL:  "/api/v2/banner/25019354",
			wantTime: 0.390,
		},
		{
			name:     "variable internal whitespace",
			line:     `1.2.3.4 -    -   [date]  "POST /checkout HTTP/1.1"  500 0 "-" "agent"   "-" "-" "-"   1.5`,
			wantURL:  "/checkout",
			wantTime: 1.5,
		},
		{
			name:     "integer request time",
			line:     `1.2.3.4 - - [date] "GET /a HTTP/1.1" 200 1 "-" "-" "-" "-" "-" 3`,
			wantURL:  "/a",
			wantTime: 3,
		},
		{
			name:    "garbage line",
			line:    "invalid log line",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
		{
			name:    "no quoted request",
			line:    `1.2.3.4 - - [date] GET /a HTTP/1.1 200 1 0.5`,
			wantErr: true,
		},
		{
			name:    "unterminated request field",
			line:    `1.2.3.4 - - [date] "GET /a HTTP/1.1 200 1 0.5`,
			wantErr: true,
		},
		{
			name:    "request without path",
			line:    `1.2.3.4 - - [date] "0" 400 1 "-" "-" "-" "-" "-" 0.5`,
			wantErr: true,
		},
		{
			name:    "non-numeric request time",
			line:    `1.2.3.4 - - [date] "GET /a HTTP/1.1" 200 1 "-" "-" "-" "-" "-" fast`,
			wantErr: true,
		},
		{
			name:    "missing request time",
			line:    `1.2.3.4 - - [date] "GET /a HTTP/1.1" 200 1 "-" "-" "-" "-" "-"`,
			wantErr: true,
		},
		{
			name:    "negative request time",
			line:    `1.2.3.4 - - [date] "GET /a HTTP/1.1" 200 1 "-" "-" "-" "-" "-" -0.5`,
			wantErr: true,
		},
		{
			name:    "NaN request time",
			line:    `1.2.3.4 - - [date] "GET /a HTTP/1.1" 200 1 "-" "-" "-" "-" "-" NaN`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeLine(%q) = %+v, want error", tt.line, rec)
				}
				if !errors.Is(err, ErrMalformedLine) {
					t.Errorf("DecodeLine(%q) error = %v, want ErrMalformedLine", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLine(%q) error = %v", tt.line, err)
			}
			if rec.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", rec.URL, tt.wantURL)
			}
			if rec.Time != tt.wantTime {
				t.Errorf("Time = %v, want %v", rec.Time, tt.wantTime)
			}
		})
	}
}

func TestStream(t *testing.T) {
	input := strings.Join([]string{
		validLine,
		"garbage",
		validLine,
		"more garbage",
		validLine,
	}, "\n")

	stream := NewStream(strings.NewReader(input), nil)

	var records int
	for {
		rec, ok := stream.Next()
		if !ok {
			break
		}
		if rec.URL != "/api/v2/banner/25019354" {
			t.Errorf("unexpected record URL %q", rec.URL)
		}
		records++
	}

	if err := stream.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if records != 3 {
		t.Errorf("records = %d, want 3", records)
	}
	if stream.Total() != 5 {
		t.Errorf("Total() = %d, want 5", stream.Total())
	}
	if stream.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", stream.Failed())
	}
}

func TestStreamEmptyInput(t *testing.T) {
	stream := NewStream(strings.NewReader(""), nil)

	if _, ok := stream.Next(); ok {
		t.Fatal("Next() on empty input returned a record")
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if stream.Total() != 0 || stream.Failed() != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", stream.Total(), stream.Failed())
	}
}

// errReader fails after yielding its prefix, like a truncated gzip stream.
type errReader struct {
	data []byte
	err  error
	read bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		n := copy(p, r.data)
		return n, nil
	}
	return 0, r.err
}

func TestStreamReadError(t *testing.T) {
	wantErr := errors.New("disk on fire")
	stream := NewStream(&errReader{data: []byte(validLine + "\n"), err: wantErr}, nil)

	for {
		if _, ok := stream.Next(); !ok {
			break
		}
	}

	if !errors.Is(stream.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", stream.Err(), wantErr)
	}
}
