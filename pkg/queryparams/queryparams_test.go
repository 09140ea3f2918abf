package queryparams

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{
			name: "zero values get defaults",
			in:   ListParams{},
			want: ListParams{Page: 1, Limit: 10, SortBy: "created_at", OrderBy: "desc"},
		},
		{
			name: "limit is capped",
			in:   ListParams{Page: 3, Limit: 500, SortBy: "title", OrderBy: "ASC"},
			want: ListParams{Page: 3, Limit: 50, SortBy: "title", OrderBy: "asc"},
		},
		{
			name: "bad order falls back",
			in:   ListParams{Page: -2, Limit: 5, OrderBy: "sideways", Search: "  rotterdam "},
			want: ListParams{Page: 1, Limit: 5, SortBy: "created_at", OrderBy: "desc", Search: "rotterdam"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Validate()
			if got != tt.want {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateOffset(t *testing.T) {
	p := ListParams{Page: 4, Limit: 25}
	if got := p.CalculateOffset(); got != 75 {
		t.Errorf("CalculateOffset() = %d, want 75", got)
	}
	p.Page = 0
	if got := p.CalculateOffset(); got != 0 {
		t.Errorf("CalculateOffset() with page 0 = %d, want 0", got)
	}
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{101, 50, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := CalculateTotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestSortColumn(t *testing.T) {
	allowed := map[string]string{"title": "jobs.title"}
	p := ListParams{SortBy: "title"}
	if got := p.SortColumn(allowed, "jobs.created_at"); got != "jobs.title" {
		t.Errorf("SortColumn() = %q", got)
	}
	p.SortBy = "password_hash"
	if got := p.SortColumn(allowed, "jobs.created_at"); got != "jobs.created_at" {
		t.Errorf("SortColumn() unknown = %q", got)
	}
}

func TestNewPaginatedResult(t *testing.T) {
	params := ListParams{Page: 2, Limit: 10}
	res := NewPaginatedResult([]int{1, 2}, 21, params)
	if res.Meta.TotalPages != 3 || res.Meta.Page != 2 || res.Meta.Total != 21 {
		t.Errorf("unexpected meta %+v", res.Meta)
	}
}
