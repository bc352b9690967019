// Package pagination computes page windows for every listing endpoint.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	PageSize    = 10
	InitialPage = 1
	// MaxPage is the largest page whose offset still fits in an int.
	MaxPage = math.MaxInt/PageSize + InitialPage
)

// Info is the pagination block returned next to a listing.
type Info struct {
	Page     int  `json:"page"`
	NextPage *int `json:"nextPage"`
}

// Page returns the requested page, defaulting to the first one and capped at MaxPage.
func Page(page *int) int {
	switch {
	case page == nil || *page < InitialPage:
		return InitialPage
	case *page > MaxPage:
		return MaxPage
	}
	return *page
}

// FromQuery parses a ?page= value; anything unparsable means the first page.
func FromQuery(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return InitialPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return InitialPage
	}
	return Page(&n)
}

// Skip is the number of rows preceding page.
func Skip(page int) int {
	return (Page(&page) - InitialPage) * PageSize
}

// TotalPages is ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// NextPage returns page+1 while more pages exist, nil otherwise.
func NextPage(page, total int) *int {
	if page < TotalPages(total) {
		next := page + 1
		return &next
	}
	return nil
}

// Build assembles the Info block for page given the total row count.
func Build(page, total int) Info {
	return Info{Page: page, NextPage: NextPage(page, total)}
}
