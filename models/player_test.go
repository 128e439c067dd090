package models

import (
	"testing"
	"time"
)

func TestGetPlayerCategory(t *testing.T) {
	dob := func(age int) time.Time {
		return time.Now().AddDate(-age, 0, -1)
	}

	cases := []struct {
		name   string
		player Player
		want   string
	}{
		{name: "woman", player: Player{Gender: "female", DateOfBirth: dob(28)}, want: CategoryWomen},
		{name: "older woman still women", player: Player{Gender: "female", DateOfBirth: dob(40)}, want: CategoryWomen},
		{name: "man under 35", player: Player{Gender: "male", DateOfBirth: dob(34)}, want: CategoryMenUnder35},
		{name: "man at 35", player: Player{Gender: "male", DateOfBirth: dob(35)}, want: CategoryMen35Plus},
		{name: "unknown gender", player: Player{Gender: "", DateOfBirth: dob(30)}, want: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.player.GetPlayerCategory(); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCategoryRankOrdering(t *testing.T) {
	if !(CategoryRank(CategoryWomen) < CategoryRank(CategoryMenUnder35) &&
		CategoryRank(CategoryMenUnder35) < CategoryRank(CategoryMen35Plus) &&
		CategoryRank(CategoryMen35Plus) < CategoryRank("unknown")) {
		t.Fatal("category ranks out of order")
	}
}
