package capability

import (
	"testing"

	"pgregory.net/rapid"
)

// 属性：ClampDuration 幂等，且结果总在声明集合内，
// 且与请求值的距离不大于集合中任何其他元素。
func TestClampDuration_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		durations := rapid.SliceOfN(rapid.IntRange(1, 60), 1, 8).Draw(t, "durations")
		requested := rapid.IntRange(-10, 120).Draw(t, "requested")

		got := clampTo(durations, requested)

		// 结果在集合内
		found := false
		for _, d := range durations {
			if d == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("clamp result %d not in duration set %v", got, durations)
		}

		// 距离最小
		for _, d := range durations {
			if abs(requested-d) < abs(requested-got) {
				t.Fatalf("clamp(%d)=%d but %d is closer in %v", requested, got, d, durations)
			}
		}

		// 幂等
		if again := clampTo(durations, got); again != got {
			t.Fatalf("clamp not idempotent: clamp(%d)=%d, clamp(%d)=%d", requested, got, got, again)
		}
	})
}

// 属性：平局时必须取声明列表中靠前的元素。
func TestClampDuration_TieBreakProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.IntRange(1, 30).Draw(t, "lo")
		gap := rapid.IntRange(1, 10).Draw(t, "gap")
		hi := lo + 2*gap
		mid := lo + gap // 与 lo、hi 等距

		if got := clampTo([]int{lo, hi}, mid); got != lo {
			t.Fatalf("tie at %d between [%d %d] resolved to %d, want earlier entry %d",
				mid, lo, hi, got, lo)
		}
		if got := clampTo([]int{hi, lo}, mid); got != hi {
			t.Fatalf("tie at %d between [%d %d] resolved to %d, want earlier entry %d",
				mid, hi, lo, got, hi)
		}
	})
}
