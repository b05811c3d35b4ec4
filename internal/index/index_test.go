package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirelint/internal/scanner"
)

func job(name, file string, line int) scanner.Resource {
	return scanner.Resource{
		Name:     name,
		Kind:     scanner.KindJob,
		Location: scanner.Location{File: file, Line: line, Column: 1},
	}
}

func TestResourcesSortedByFileThenLine(t *testing.T) {
	x := New()
	x.AddFile(&scanner.FileResult{Path: "b.py", Resources: []scanner.Resource{
		job("late", "b.py", 10),
		job("early", "b.py", 2),
	}})
	x.AddFile(&scanner.FileResult{Path: "a.py", Resources: []scanner.Resource{
		job("other", "a.py", 5),
	}})

	got := x.Resources()
	require.Len(t, got, 3)
	assert.Equal(t, "other", got[0].Name)
	assert.Equal(t, "early", got[1].Name)
	assert.Equal(t, "late", got[2].Name)
}

func TestLookupJobFirstDeclarationWins(t *testing.T) {
	x := New()
	x.AddFile(&scanner.FileResult{Path: "z.py", Resources: []scanner.Resource{
		job("deploy", "z.py", 3),
	}})
	x.AddFile(&scanner.FileResult{Path: "a.py", Resources: []scanner.Resource{
		job("deploy", "a.py", 7),
	}})

	res, ok := x.LookupJob("deploy")
	require.True(t, ok)
	assert.Equal(t, "a.py", res.Location.File)

	_, ok = x.LookupJob("missing")
	assert.False(t, ok)
}

func TestDuplicates(t *testing.T) {
	x := New()
	x.AddFile(&scanner.FileResult{Path: "a.py", Resources: []scanner.Resource{
		job("deploy", "a.py", 1),
		job("unique", "a.py", 4),
	}})
	x.AddFile(&scanner.FileResult{Path: "b.py", Resources: []scanner.Resource{
		job("deploy", "b.py", 9),
	}})

	dups := x.Duplicates(scanner.KindJob)
	require.Len(t, dups, 1)
	assert.Equal(t, "deploy", dups[0].Name)
	require.Len(t, dups[0].Locations, 2)
	assert.Equal(t, "a.py", dups[0].Locations[0].File)
	assert.Equal(t, "b.py", dups[0].Locations[1].File)

	assert.Empty(t, x.Duplicates(scanner.KindWorkflow))
}

func TestParseErrorsRecorded(t *testing.T) {
	x := New()
	x.AddFile(&scanner.FileResult{
		Path:     "bad.py",
		ParseErr: &scanner.ParseError{File: "bad.py", Line: 2, Column: 1},
	})
	x.AddFile(&scanner.FileResult{Path: "good.py", Resources: []scanner.Resource{
		job("fine", "good.py", 1),
	}})

	errs := x.ParseErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "bad.py", errs[0].File)
	assert.Len(t, x.Resources(), 1)
}
