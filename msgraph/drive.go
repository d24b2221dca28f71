package msgraph

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type DriveItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder,omitempty"`
}

func (i DriveItem) IsFolder() bool {
	return i.Folder != nil
}

// ListFolderChildren lists every item under a folder path, following
// @odata.nextLink until exhausted.
func (c *Client) ListFolderChildren(ctx context.Context, folderPath string) ([]DriveItem, error) {
	folderPath = strings.Trim(folderPath, "/")
	escaped := make([]string, 0)
	for _, seg := range strings.Split(folderPath, "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	endpoint := fmt.Sprintf("%s/drives/%s/root:/%s:/children", c.baseURL, c.driveID, strings.Join(escaped, "/"))

	var items []DriveItem
	for endpoint != "" {
		var page struct {
			Value    []DriveItem `json:"value"`
			NextLink string      `json:"@odata.nextLink"`
		}
		if err := c.getJSONAbsolute(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("listing folder %q: %w", folderPath, err)
		}
		items = append(items, page.Value...)
		endpoint = page.NextLink
	}
	return items, nil
}

func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.deleteWithRetry(ctx, fmt.Sprintf("/drives/%s/items/%s", c.driveID, url.PathEscape(itemID)))
}
