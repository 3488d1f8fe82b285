package bulkimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	cases := []struct {
		name string
		grid [][]string
		opts ParseOptions
		want []Row
	}{
		{
			name: "trims and keeps complete rows",
			grid: [][]string{{"  Jaunpur ", " Sujanganj"}, {"Varanasi", "Sarnath", "extra"}},
			want: []Row{{"Jaunpur", "Sujanganj"}, {"Varanasi", "Sarnath"}},
		},
		{
			name: "drops blank and short rows",
			grid: [][]string{{"", "Village1"}, {"District1", ""}, {"Only"}, {}, {"  ", "  "}},
			want: []Row{},
		},
		{
			name: "header is data unless skipped",
			grid: [][]string{{"District", "Village"}, {"Pune", "Khed"}},
			want: []Row{{"District", "Village"}, {"Pune", "Khed"}},
		},
		{
			name: "skip header",
			grid: [][]string{{"District", "Village"}, {"Pune", "Khed"}},
			opts: ParseOptions{SkipHeader: true},
			want: []Row{{"Pune", "Khed"}},
		},
		{
			name: "empty grid",
			grid: nil,
			opts: ParseOptions{SkipHeader: true},
			want: []Row{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseRows(tc.grid, tc.opts))
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeff\"Jaunpur\",\"Machhlishahr\"\r\nJaunpur, Sujanganj\r\n\r\n\"Varanasi, East\",Sarnath\nlonely\n"

	got, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Jaunpur", "Machhlishahr"},
		{"Jaunpur", "Sujanganj"},
		{"Varanasi, East", "Sarnath"},
		{"lonely"},
	}, got)
}

func TestReadCSV_MalformedQuotesStayOnTheirLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []Row
	}{
		{
			name:  "unterminated leading quote",
			input: "\"Jaunpur,Sarnath\nVaranasi,Ramnagar\nAgra,Fatehabad\n",
			want:  []Row{{"Jaunpur", "Sarnath"}, {"Varanasi", "Ramnagar"}, {"Agra", "Fatehabad"}},
		},
		{
			name:  "space after closing quote",
			input: "Jaunpur,\"Machhlishahr\" \nVaranasi,Sarnath\n",
			want:  []Row{{"Jaunpur", "Machhlishahr"}, {"Varanasi", "Sarnath"}},
		},
		{
			name:  "trailing quote only",
			input: "Jaunpur,Sujanganj\"\r\nVaranasi,Sarnath\r\n",
			want:  []Row{{"Jaunpur", "Sujanganj"}, {"Varanasi", "Sarnath"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := ParseCSVText(tc.input, ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, rows)
		})
	}
}

func TestParseCSVText(t *testing.T) {
	rows, err := ParseCSVText("district,village\nPune,Khed\n,Orphan\n", ParseOptions{SkipHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []Row{{"Pune", "Khed"}}, rows)
}

func TestGroupRows_PreservesOrderAndDuplicates(t *testing.T) {
	groups := GroupRows([]Row{
		{"Varanasi", "Sarnath"},
		{"Jaunpur", "Sujanganj"},
		{"Varanasi", "Sarnath"},
		{"varanasi", "Ramnagar"},
	})

	assert.Equal(t, []Group{
		{District: "Varanasi", Villages: []string{"Sarnath", "Sarnath"}},
		{District: "Jaunpur", Villages: []string{"Sujanganj"}},
		{District: "varanasi", Villages: []string{"Ramnagar"}},
	}, groups)
}
