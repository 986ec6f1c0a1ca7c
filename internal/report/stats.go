package report

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"mediahub/internal/catalogclient"
)

// CountRatedAbove counts media whose rating is strictly greater than threshold.
func CountRatedAbove(list []catalogclient.Media, threshold float64) int {
	n := 0
	for _, m := range list {
		if m.AverageRating > threshold {
			n++
		}
	}
	return n
}

// ReleasedBetween keeps media released strictly after from and strictly
// before to, preserving input order.
func ReleasedBetween(list []catalogclient.Media, from, to time.Time) []catalogclient.Media {
	out := make([]catalogclient.Media, 0, len(list))
	for _, m := range list {
		if m.ReleaseDate.After(from) && m.ReleaseDate.Before(to) {
			out = append(out, m)
		}
	}
	return out
}

// SortByRating sorts ascending by rating. Equal ratings keep their order.
func SortByRating(list []catalogclient.Media) {
	slices.SortStableFunc(list, func(a, b catalogclient.Media) int {
		switch {
		case a.AverageRating < b.AverageRating:
			return -1
		case a.AverageRating > b.AverageRating:
			return 1
		default:
			return 0
		}
	})
}

// MeanStdDev returns the mean and population standard deviation, computed as
// sqrt(E[x^2] - E[x]^2). Both are 0 for an empty input.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	n := float64(len(values))
	mean = sum / n
	variance := sumSq/n - mean*mean
	// rounding can push a zero variance slightly negative
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// Oldest returns the media with the earliest release date. The first one
// encountered wins a tie.
func Oldest(list []catalogclient.Media) (catalogclient.Media, bool) {
	if len(list) == 0 {
		return catalogclient.Media{}, false
	}
	oldest := list[0]
	for _, m := range list[1:] {
		if m.ReleaseDate.Before(oldest.ReleaseDate.Time) {
			oldest = m
		}
	}
	return oldest, true
}

// AverageCount is the mean of counts, or 0 when counts is empty.
func AverageCount(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return float64(total) / float64(len(counts))
}

// SortByAgeDesc sorts oldest first. Users of equal age keep their order.
func SortByAgeDesc(users []catalogclient.User) {
	slices.SortStableFunc(users, func(a, b catalogclient.User) int {
		return b.Age - a.Age
	})
}

// formatRating prints a rating the way the catalog stores it, keeping at
// least one decimal place: 8 -> "8.0", 7.25 -> "7.25".
func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
