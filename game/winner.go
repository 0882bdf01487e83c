package game

// FindWinner scans tickets in sale order and returns the first one
// whose chosen numbers, across all of its sets, have at least
// threshold matches against drawn. A later ticket with more matches
// does not displace an earlier qualifying one. It returns nil when
// nobody qualifies.
func FindWinner(tickets []*Ticket, drawn []int, threshold int, prizes PrizeTable) *Winner {
	if len(drawn) < threshold {
		return nil
	}
	drawnSet := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		drawnSet[n] = true
	}

	for _, t := range tickets {
		matches := 0
		for _, line := range t.Lines {
			for _, n := range line.Numbers {
				if drawnSet[n] {
					matches++
				}
			}
		}
		if matches >= threshold {
			return &Winner{
				TicketID:   t.ID,
				PlayerName: t.PlayerName,
				Matches:    matches,
				Prize:      prizes.Prize(matches, t.Stake),
			}
		}
	}
	return nil
}
