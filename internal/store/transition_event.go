package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendTransition(ctx context.Context, data TransitionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO transition_events (
		sequence, timestamp, session_id, from_screen, from_mode, to_screen, to_mode, trigger
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC().UnixMilli(), data.SessionID,
		data.FromScreen, data.FromMode, data.ToScreen, data.ToMode, data.Trigger,
	)
	if err != nil {
		return fmt.Errorf("save transition event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryTransitions(ctx context.Context, sessionID string, opts QueryOpts) ([]TransitionEvent, error) {
	var (
		where string
		args  []any
	)
	if sessionID != "" {
		where, args = sequenceFilter(opts, "session_id = ?")
		args = append([]any{sessionID}, args...)
	} else {
		where, args = sequenceFilter(opts)
	}

	q := `SELECT id, sequence, timestamp, session_id, from_screen, from_mode, to_screen, to_mode, trigger
		FROM transition_events` + where + ` ORDER BY sequence ASC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionEvent
	for rows.Next() {
		var (
			e  TransitionEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.FromScreen,
			&e.FromMode, &e.ToScreen, &e.ToMode, &e.Trigger); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
