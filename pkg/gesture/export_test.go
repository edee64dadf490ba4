package gesture

// SupersededBackstops reports how many abandoned backstops c still tracks.
func SupersededBackstops(c *Controller) int {
	return len(c.superseded)
}
