package wordlist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []string
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name:        "ranked csv",
			fileContent: "rank,word,count,freq_per_million\n1,the,10,50000.0\n2,it's,5,25000.0\n",
			want:        []string{"the", "it's"},
		},
		{
			name:        "csv with word column elsewhere",
			fileContent: "word,count\nhouse,3\ncat,1\n",
			want:        []string{"house", "cat"},
		},
		{
			name:        "csv with byte order mark",
			fileContent: "\xef\xbb\xbfrank,word,count,freq_per_million\n1,and,4,1.0\n",
			want:        []string{"and"},
		},
		{
			name: "plain words",
			fileContent: `apple
cat
dog`,
			want: []string{"apple", "cat", "dog"},
		},
		{
			name: "comments, blanks and duplicates",
			fileContent: `
# common words
apple

  cat  
apple
`,
			want: []string{"apple", "cat"},
		},
		{
			name:        "windows line endings",
			fileContent: "apple\r\ncat\r\ndog",
			want:        []string{"apple", "cat", "dog"},
		},
		{
			name:        "word with translation",
			fileContent: "ябълка = apple\n= orphan\nкотка",
			want:        []string{"ябълка", "котка"},
		},
		{
			name:        "broken csv",
			fileContent: "rank,word\n1,\"unterminated\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.fileContent))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatalf("Failed to create word list: %v", err)
	}

	words, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"one", "two"}) {
		t.Errorf("Read() = %v", words)
	}
}

func TestReadNonExistentFile(t *testing.T) {
	if _, err := Read("/non/existent/file.txt"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLimit(t *testing.T) {
	words := []string{"a", "b", "c"}

	tests := []struct {
		n    int
		want int
	}{
		{0, 3},
		{-1, 3},
		{2, 2},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := Limit(words, tt.n); len(got) != tt.want {
			t.Errorf("Limit(%d) returned %d words, want %d", tt.n, len(got), tt.want)
		}
	}
}
