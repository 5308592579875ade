package gallery

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// GroupIDParam is the query parameter selecting the photo group
	GroupIDParam = "groupId"

	// PageParam is the query parameter selecting the 1-based listing page
	PageParam = "page"
)

// PageURL builds the listing URL for one page. Query parameters already
// present on baseURL are kept.
func PageURL(baseURL, groupID string, page int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid listing URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("listing URL %q is not absolute", baseURL)
	}

	params := u.Query()
	params.Set(GroupIDParam, groupID)
	params.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = params.Encode()

	return u.String(), nil
}
