package processor

import "testing"

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		objectName string
		want       JobRequest
		wantErr    bool
	}{
		{
			name:       "plain upload name",
			objectName: "uid123-1700000000.mp4",
			want: JobRequest{
				VideoID:       "uid123-1700000000",
				UID:           "uid123",
				RawName:       "uid123-1700000000.mp4",
				ProcessedName: "processed-uid123-1700000000.mp4",
			},
		},
		{
			name:       "no uid separator",
			objectName: "abc.mp4",
			want: JobRequest{
				VideoID:       "abc",
				UID:           "abc",
				RawName:       "abc.mp4",
				ProcessedName: "processed-abc.mp4",
			},
		},
		{
			name:       "surrounding whitespace trimmed",
			objectName: "  abc.mp4  ",
			want: JobRequest{
				VideoID:       "abc",
				UID:           "abc",
				RawName:       "abc.mp4",
				ProcessedName: "processed-abc.mp4",
			},
		},
		{name: "empty", objectName: "", wantErr: true},
		{name: "whitespace only", objectName: "   ", wantErr: true},
		{name: "no extension", objectName: "abc", wantErr: true},
		{name: "extension only", objectName: ".mp4", wantErr: true},
		{name: "forward slash", objectName: "videos/abc.mp4", wantErr: true},
		{name: "backslash", objectName: `videos\abc.mp4`, wantErr: true},
		{name: "parent traversal", objectName: "../abc.mp4", wantErr: true},
		{name: "embedded parent reference", objectName: "abc..mp4", wantErr: true},
		{name: "absolute path", objectName: "/etc/passwd.mp4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.objectName)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRequest(%q) succeeded, want error", tt.objectName)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest(%q) failed: %v", tt.objectName, err)
			}
			if got != tt.want {
				t.Errorf("ParseRequest(%q) = %+v, want %+v", tt.objectName, got, tt.want)
			}
		})
	}
}
