// Package toggle implements the two small controlled presenters of the feed
// header: the feed mode switch and the fresh-data banner.
package toggle
