package user

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func TestCreateInput_Normalize(t *testing.T) {
	t.Parallel()

	in := CreateInput{
		Name:  "  Ann  ",
		Email: " A@X.com ",
		Image: strPtr(" https://img.example.com/a.png "),
	}
	in.Normalize()

	want := CreateInput{
		Name:  "Ann",
		Email: "a@x.com",
		Image: strPtr("https://img.example.com/a.png"),
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateInput_NewUser(t *testing.T) {
	t.Parallel()

	image := "https://img.example.com/a.png"
	in := CreateInput{Name: "Ann", Email: "a@x.com", Image: &image}

	got := in.NewUser("id-1", testTime)

	want := User{
		ID:        "id-1",
		Name:      "Ann",
		Email:     "a@x.com",
		Image:     strPtr(image),
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewUser() mismatch (-want +got):\n%s", diff)
	}

	image = "changed"
	if *got.Image == "changed" {
		t.Error("NewUser() shares the Image pointer with its input")
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		patch Patch
		want  bool
	}{
		{name: "zero patch", patch: Patch{}, want: true},
		{name: "only updated_at", patch: Patch{UpdatedAt: testTime}, want: true},
		{name: "name", patch: Patch{Name: strPtr("Bo")}, want: false},
		{name: "email", patch: Patch{Email: strPtr("b@x.com")}, want: false},
		{name: "email verified false", patch: Patch{EmailVerified: boolPtr(false)}, want: false},
		{name: "image", patch: Patch{Image: strPtr("")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.patch.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatch_NormalizeAndApply(t *testing.T) {
	t.Parallel()

	u := User{
		ID:        "id-1",
		Name:      "Ann",
		Email:     "a@x.com",
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	later := testTime.Add(time.Hour)

	p := Patch{
		Name:          strPtr(" Bo "),
		Email:         strPtr("BO@X.COM"),
		EmailVerified: boolPtr(true),
		UpdatedAt:     later,
	}
	p.Normalize()
	p.Apply(&u)

	want := User{
		ID:            "id-1",
		Name:          "Bo",
		Email:         "bo@x.com",
		EmailVerified: true,
		CreatedAt:     testTime,
		UpdatedAt:     later,
	}
	if diff := cmp.Diff(want, u); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestPatch_ApplyLeavesAbsentFields(t *testing.T) {
	t.Parallel()

	u := User{ID: "id-1", Name: "Ann", Email: "a@x.com", Image: strPtr("https://x.io/a.png"), UpdatedAt: testTime}
	p := Patch{EmailVerified: boolPtr(true)}
	p.Apply(&u)

	if u.Name != "Ann" || u.Email != "a@x.com" || *u.Image != "https://x.io/a.png" {
		t.Errorf("Apply() changed absent fields: %+v", u)
	}
	if !u.UpdatedAt.Equal(testTime) {
		t.Errorf("UpdatedAt = %v, want unchanged %v", u.UpdatedAt, testTime)
	}
}

func TestUser_Clone(t *testing.T) {
	t.Parallel()

	u := User{ID: "id-1", Image: strPtr("https://x.io/a.png")}
	c := u.Clone()
	*c.Image = "mutated"

	if *u.Image != "https://x.io/a.png" {
		t.Errorf("Clone() shares Image pointer; original now %q", *u.Image)
	}
}

func TestFilter_Normalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Filter
		want Filter
	}{
		{name: "zero uses default limit", in: Filter{}, want: Filter{Limit: DefaultLimit}},
		{name: "limit clamped", in: Filter{Limit: 1000}, want: Filter{Limit: MaxLimit}},
		{name: "negative offset clamped", in: Filter{Limit: 10, Offset: -3}, want: Filter{Limit: 10}},
		{name: "valid untouched", in: Filter{Limit: 10, Offset: 20}, want: Filter{Limit: 10, Offset: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.in.Normalized(); got != tt.want {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompareCreated(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []User{
		{ID: "c", CreatedAt: t0.Add(time.Second)},
		{ID: "b", CreatedAt: t0},
		{ID: "a", CreatedAt: t0},
	}

	slices.SortFunc(users, CompareCreated)

	got := []string{users[0].ID, users[1].ID, users[2].ID}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
