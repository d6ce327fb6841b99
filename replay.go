package panel

import "time"

// RetryBudget is the number of attempts per command table entry.
const RetryBudget = 3

// replay applies every entry of table in order. An entry that fails RetryBudget
// times aborts the replay, the entries after it are not attempted.
func (r *registers) replay(table *CommandTable, retryDelay time.Duration, delay func(time.Duration)) error {
	for i, op := range table.ops {
		var err error
		for attempt := 1; attempt <= RetryBudget; attempt++ {
			if attempt > 1 && retryDelay > 0 {
				delay(retryDelay)
			}
			if err = r.apply(op); err == nil {
				break
			}
			r.log.Warn().Err(err).Int("index", i).Int("attempt", attempt).Stringer("op", op).Msg("command write failed")
		}
		if err != nil {
			return &CommandWriteError{
				Index:    i,
				Op:       table.At(i),
				Attempts: RetryBudget,
				Err:      err,
			}
		}
	}

	r.log.Debug().Int("entries", table.Len()).Msg("command table replayed")
	return nil
}
