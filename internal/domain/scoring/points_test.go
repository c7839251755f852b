package scoring

import (
	"testing"

	"github.com/thehubfc/prediction-league/internal/domain/round"
)

func TestPointsRegular(t *testing.T) {
	cases := []struct {
		name    string
		correct bool
		banker  bool
		motw    bool
		want    int
	}{
		{name: "wrong plain", want: 0},
		{name: "correct plain", correct: true, want: 3},
		{name: "wrong banker", banker: true, want: -3},
		{name: "correct banker", correct: true, banker: true, want: 6},
		{name: "wrong motw", motw: true, want: 0},
		{name: "correct motw", correct: true, motw: true, want: 6},
		{name: "wrong banker on motw", banker: true, motw: true, want: -6},
		{name: "correct banker on motw", correct: true, banker: true, motw: true, want: 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Points(tc.correct, tc.banker, tc.motw, round.TypeRegular)
			if got != tc.want {
				t.Fatalf("expected %d points, got %d", tc.want, got)
			}
		})
	}
}

func TestPointsStandaloneIgnoresFlags(t *testing.T) {
	for _, banker := range []bool{false, true} {
		for _, motw := range []bool{false, true} {
			if got := Points(true, banker, motw, round.TypeStandalone); got != 3 {
				t.Fatalf("correct standalone pick (banker=%v motw=%v): expected 3, got %d", banker, motw, got)
			}
			if got := Points(false, banker, motw, round.TypeStandalone); got != 0 {
				t.Fatalf("wrong standalone pick (banker=%v motw=%v): expected 0, got %d", banker, motw, got)
			}
		}
	}
}
