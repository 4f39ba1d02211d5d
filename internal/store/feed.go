package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/newswire/apiserver/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// feedConditions translates a visibility filter into SQL predicates.
// An empty ID set under Scoped renders as a false predicate, so a
// reader with no subscriptions matches nothing.
func feedConditions(f types.FeedFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if f.ApprovedOnly {
		conds = append(conds, sq.Eq{"status": types.StatusApproved.String()})
	}
	if f.Scoped {
		conds = append(conds, sq.Or{
			sq.Eq{"publisher_id": f.PublisherIDs},
			sq.Eq{"author_id": f.JournalistIDs},
		})
	}
	return conds
}

func feedSelect(table, columns string, f types.FeedFilter, offset, limit int) sq.SelectBuilder {
	b := psql.Select(columns).From(table)
	for _, cond := range feedConditions(f) {
		b = b.Where(cond)
	}
	return b.
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))
}

func feedCount(table string, f types.FeedFilter) sq.SelectBuilder {
	b := psql.Select("COUNT(1)").From(table)
	for _, cond := range feedConditions(f) {
		b = b.Where(cond)
	}
	return b
}
