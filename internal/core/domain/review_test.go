package domain

import "testing"

func TestSummarize(t *testing.T) {
	reviews := []Review{
		{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 3},
	}

	s := Summarize(reviews)

	if s.Count != 4 {
		t.Fatalf("count: got %d, want 4", s.Count)
	}
	if s.Average != 4.25 {
		t.Fatalf("average: got %v, want 4.25", s.Average)
	}
	if s.Histogram[4] != 2 {
		t.Fatalf("5-star bucket: got %d, want 2", s.Histogram[4])
	}
	if s.Histogram[3] != 1 || s.Histogram[2] != 1 {
		t.Fatalf("histogram: got %v", s.Histogram)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.Average != 0 {
		t.Fatalf("empty summary: got %+v", s)
	}
}

func TestSummarizeSkipsOutOfRange(t *testing.T) {
	s := Summarize([]Review{{Rating: 0}, {Rating: 6}, {Rating: 2}})
	if s.Count != 1 || s.Average != 2 {
		t.Fatalf("got %+v", s)
	}
}

func TestSummarizeRoundsToTwoDecimals(t *testing.T) {
	// 5+4+4 = 13/3 = 4.333... -> 4.33
	s := Summarize([]Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	if s.Average != 4.33 {
		t.Fatalf("average: got %v, want 4.33", s.Average)
	}
}

func TestRoleCan(t *testing.T) {
	if !RoleAdmin.Can(CapManageUsers) {
		t.Error("admin should manage users")
	}
	if RoleLibrarian.Can(CapManageUsers) {
		t.Error("librarian must not manage users")
	}
	if !RoleLibrarian.Can(CapManageBooks) {
		t.Error("librarian should manage books")
	}
	if RoleUser.Can(CapManageOrders) {
		t.Error("user must not manage orders")
	}
	if RolePending.Can(CapBrowseCatalog) {
		t.Error("pending role must have no capabilities")
	}
}
