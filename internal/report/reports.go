// Package report computes the fixed battery of catalog reports (REQ 1 to 10)
// and formats them into output lines.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediahub/internal/catalogclient"
	"mediahub/internal/logging"
)

// Catalog is the read API the reports need. *catalogclient.Client implements it.
type Catalog interface {
	ListMedia(ctx context.Context) ([]catalogclient.Media, error)
	GetMedia(ctx context.Context, id int64) (*catalogclient.Media, error)
	MediaUserIDs(ctx context.Context, id int64) ([]int64, error)
	HasSubscribers(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]catalogclient.User, error)
	GetUser(ctx context.Context, id int64) (*catalogclient.User, error)
	UserMediaIDs(ctx context.Context, id int64) ([]int64, error)
}

// Report is one independent pipeline. Run returns its data lines in order.
type Report struct {
	Number int
	Name   string
	Run    func(ctx context.Context) ([]string, error)
}

const highRatingThreshold = 8

var (
	eightiesFrom = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	eightiesTo   = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Reporter builds reports over a Catalog. fanout bounds the number of
// concurrent per-item requests inside a single report.
type Reporter struct {
	catalog Catalog
	fanout  int
}

func NewReporter(c Catalog, fanout int) *Reporter {
	if fanout <= 0 {
		fanout = 1
	}
	return &Reporter{catalog: c, fanout: fanout}
}

// Battery returns REQ 1 to 10 in order.
func (r *Reporter) Battery() []Report {
	return []Report{
		{1, "list media", r.ListMedia},
		{2, "total media count", r.TotalCount},
		{3, "high rated count", r.HighRatedCount},
		{4, "subscribed media count", r.SubscribedCount},
		{5, "1980s ranking", r.EightiesRanking},
		{6, "rating statistics", r.RatingStats},
		{7, "oldest media", r.OldestMedia},
		{8, "average subscribers", r.AverageSubscribers},
		{9, "media subscriber roster", r.MediaRosters},
		{10, "user subscription roster", r.UserRosters},
	}
}

func (r *Reporter) ListMedia(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(list))
	for _, m := range list {
		lines = append(lines, fmt.Sprintf("Title: %s, Release Date: %s", m.Title, m.ReleaseDate))
	}
	return lines, nil
}

func (r *Reporter) TotalCount(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Total Media Count: %d", len(list))}, nil
}

func (r *Reporter) HighRatedCount(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	n := CountRatedAbove(list, highRatingThreshold)
	return []string{fmt.Sprintf("Total Really Good Media Count (Rating > 8): %d", n)}, nil
}

// SubscribedCount issues one existence check per media item. Media deleted
// since the list was fetched count as unsubscribed.
func (r *Reporter) SubscribedCount(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := collect(ctx, r.fanout, list, func(ctx context.Context, m catalogclient.Media) (bool, error) {
		ok, err := r.catalog.HasSubscribers(ctx, m.ID)
		if errors.Is(err, catalogclient.ErrNotFound) {
			logging.Debug().Int64("media_id", m.ID).Msg("media vanished, not counted")
			return false, nil
		}
		return ok, err
	})
	if err != nil {
		return nil, err
	}
	n := 0
	for _, ok := range flags {
		if ok {
			n++
		}
	}
	return []string{fmt.Sprintf("Subscribed Media Count: %d", n)}, nil
}

func (r *Reporter) EightiesRanking(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	picked := ReleasedBetween(list, eightiesFrom, eightiesTo)
	SortByRating(picked)

	lines := make([]string, 0, len(picked))
	for _, m := range picked {
		lines = append(lines, fmt.Sprintf("Title: %s, Release Date: %s, Average Rating: %s",
			m.Title, m.ReleaseDate, formatRating(m.AverageRating)))
	}
	return lines, nil
}

func (r *Reporter) RatingStats(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	ratings := make([]float64, len(list))
	for i, m := range list {
		ratings[i] = m.AverageRating
	}
	mean, sd := MeanStdDev(ratings)
	return []string{fmt.Sprintf("Average Rating: %.2f, Standard Deviation: %.2f", mean, sd)}, nil
}

func (r *Reporter) OldestMedia(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := Oldest(list)
	if !ok {
		return []string{"Oldest Media: none"}, nil
	}
	return []string{fmt.Sprintf("Oldest Media: Title: %s, Release Date: %s", m.Title, m.ReleaseDate)}, nil
}

func (r *Reporter) AverageSubscribers(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := collect(ctx, r.fanout, list, func(ctx context.Context, m catalogclient.Media) (int, error) {
		ids, err := r.catalog.MediaUserIDs(ctx, m.ID)
		return len(ids), err
	})
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Average Subscribers per Media: %.2f", AverageCount(counts))}, nil
}

// MediaRosters fetches subscriber ids per media, resolves every distinct
// user once, then rebuilds each roster in fetch order before sorting by age.
func (r *Reporter) MediaRosters(ctx context.Context) ([]string, error) {
	list, err := r.catalog.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	idGroups, err := collect(ctx, r.fanout, list, func(ctx context.Context, m catalogclient.Media) ([]int64, error) {
		return r.catalog.MediaUserIDs(ctx, m.ID)
	})
	if err != nil {
		return nil, err
	}
	users, err := r.resolveUsers(ctx, distinct(idGroups))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(list))
	for i, m := range list {
		roster := make([]catalogclient.User, 0, len(idGroups[i]))
		for _, id := range idGroups[i] {
			if u, ok := users[id]; ok {
				roster = append(roster, u)
			}
		}
		SortByAgeDesc(roster)

		names := make([]string, len(roster))
		for j, u := range roster {
			names[j] = u.Name
		}
		lines = append(lines, fmt.Sprintf("Title: %s, Subscribers (%d): %s", m.Title, len(roster), joinOrNone(names)))
	}
	return lines, nil
}

// UserRosters is the per-user mirror of MediaRosters. Titles stay in fetch order.
func (r *Reporter) UserRosters(ctx context.Context) ([]string, error) {
	users, err := r.catalog.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	idGroups, err := collect(ctx, r.fanout, users, func(ctx context.Context, u catalogclient.User) ([]int64, error) {
		return r.catalog.UserMediaIDs(ctx, u.ID)
	})
	if err != nil {
		return nil, err
	}
	media, err := r.resolveMedia(ctx, distinct(idGroups))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(users))
	for i, u := range users {
		titles := make([]string, 0, len(idGroups[i]))
		for _, id := range idGroups[i] {
			if m, ok := media[id]; ok {
				titles = append(titles, m.Title)
			}
		}
		lines = append(lines, fmt.Sprintf("Name: %s, Age: %d, Gender: %s, Media (%d): %s",
			u.Name, u.Age, u.Gender, len(titles), joinOrNone(titles)))
	}
	return lines, nil
}

// resolveUsers fetches each user once. Users deleted since their id was
// listed are left out.
func (r *Reporter) resolveUsers(ctx context.Context, ids []int64) (map[int64]catalogclient.User, error) {
	found, err := collect(ctx, r.fanout, ids, func(ctx context.Context, id int64) (*catalogclient.User, error) {
		u, err := r.catalog.GetUser(ctx, id)
		if errors.Is(err, catalogclient.ErrNotFound) {
			logging.Debug().Int64("user_id", id).Msg("subscriber vanished, skipping")
			return nil, nil
		}
		return u, err
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]catalogclient.User, len(found))
	for i, u := range found {
		if u != nil {
			byID[ids[i]] = *u
		}
	}
	return byID, nil
}

func (r *Reporter) resolveMedia(ctx context.Context, ids []int64) (map[int64]catalogclient.Media, error) {
	found, err := collect(ctx, r.fanout, ids, func(ctx context.Context, id int64) (*catalogclient.Media, error) {
		m, err := r.catalog.GetMedia(ctx, id)
		if errors.Is(err, catalogclient.ErrNotFound) {
			logging.Debug().Int64("media_id", id).Msg("media vanished, skipping")
			return nil, nil
		}
		return m, err
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]catalogclient.Media, len(found))
	for i, m := range found {
		if m != nil {
			byID[ids[i]] = *m
		}
	}
	return byID, nil
}
