package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/foliolabs/folio/pkg/query"
)

func documentProjection() *query.ProjectionMap {
	return query.NewProjectionMap("library", "documents", "d").
		Project("id", "ID").
		Project("name", "Name").
		Project("filename", "Filename").
		Project("last_read_at", "LastReadAt")
}

func TestProjectionMap(t *testing.T) {
	p := documentProjection()

	if got := p.Table(); got != "library.documents d" {
		t.Errorf("Table() = %q, want %q", got, "library.documents d")
	}
	if got := p.Alias(); got != "d" {
		t.Errorf("Alias() = %q, want %q", got, "d")
	}
	if got := p.Column("Name"); got != "d.name" {
		t.Errorf("Column(Name) = %q, want %q", got, "d.name")
	}
	if got := p.Column("Unknown"); got != "Unknown" {
		t.Errorf("Column(Unknown) = %q, want passthrough", got)
	}

	want := []string{"d.id", "d.name", "d.filename", "d.last_read_at"}
	if diff := cmp.Diff(want, p.ColumnList()); diff != "" {
		t.Errorf("ColumnList() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "Name", []query.SortField{{Field: "Name"}}},
		{"single descending", "-LastReadAt", []query.SortField{{Field: "LastReadAt", Descending: true}}},
		{
			"mixed with spaces",
			"Name, -LastReadAt",
			[]query.SortField{{Field: "Name"}, {Field: "LastReadAt", Descending: true}},
		},
		{"blank segments skipped", "Name,,", []query.SortField{{Field: "Name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, query.ParseSortFields(tt.expr)); diff != "" {
				t.Errorf("ParseSortFields(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestBuilder_BuildCount(t *testing.T) {
	b := query.NewBuilder(documentProjection(), query.SortField{Field: "LastReadAt", Descending: true})

	sql, args := b.BuildCount()
	if sql != "SELECT COUNT(*) FROM library.documents d" {
		t.Errorf("BuildCount() = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want none", args)
	}
}

func TestBuilder_BuildPage_DefaultSort(t *testing.T) {
	b := query.NewBuilder(documentProjection(), query.SortField{Field: "LastReadAt", Descending: true})

	sql, args := b.BuildPage(2, 20)
	want := "SELECT d.id, d.name, d.filename, d.last_read_at FROM library.documents d" +
		" ORDER BY d.last_read_at DESC LIMIT 20 OFFSET 20"
	if sql != want {
		t.Errorf("BuildPage() = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want none", args)
	}
}

func TestBuilder_BuildPage_WithConditions(t *testing.T) {
	search := "thesis"
	b := query.NewBuilder(documentProjection(), query.SortField{Field: "LastReadAt", Descending: true}).
		WhereSearch(&search, "Name", "Filename").
		OrderByFields(query.ParseSortFields("Name"))

	sql, args := b.BuildPage(1, 10)
	want := "SELECT d.id, d.name, d.filename, d.last_read_at FROM library.documents d" +
		" WHERE (d.name ILIKE $1 OR d.filename ILIKE $2)" +
		" ORDER BY d.name ASC LIMIT 10 OFFSET 0"
	if sql != want {
		t.Errorf("BuildPage() = %q, want %q", sql, want)
	}

	wantArgs := []any{"%thesis%", "%thesis%"}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("BuildPage() args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_WhereContains_IgnoresEmpty(t *testing.T) {
	empty := ""
	b := query.NewBuilder(documentProjection(), query.SortField{Field: "Name"}).
		WhereContains("Name", nil).
		WhereContains("Name", &empty)

	sql, args := b.BuildCount()
	if sql != "SELECT COUNT(*) FROM library.documents d" {
		t.Errorf("BuildCount() = %q, want no WHERE clause", sql)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want none", args)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	b := query.NewBuilder(documentProjection(), query.SortField{Field: "Name"})

	sql, args := b.BuildSingle("ID", "abc")
	want := "SELECT d.id, d.name, d.filename, d.last_read_at FROM library.documents d WHERE d.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("BuildSingle() args = %v, want [abc]", args)
	}
}
