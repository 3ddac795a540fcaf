package http

import (
	"strings"
	"time"

	"github.com/vadimbarashkov/link-shortener/internal/entity"
	"github.com/vadimbarashkov/link-shortener/pkg/response"
)

const resourceType = "shortUrl"

const deletedMessage = "The URL has been successfully deleted."

// createLinkRequest represents the structure for a request to shorten a URL.
type createLinkRequest struct {
	URL         string `json:"url"`
	Alias       string `json:"alias"`
	Fingerprint string `json:"fingerprint"`
}

// updateLinkRequest represents the structure for a request to modify a link.
// Omitted fields are nil.
type updateLinkRequest struct {
	URL   *string `json:"url"`
	Alias *string `json:"alias"`
}

type createdLinkAttributes struct {
	OriginalURL  string  `json:"originalUrl"`
	ShortenedURL string  `json:"shortenedUrl"`
	Image        *string `json:"image"`
}

type linkAttributes struct {
	OriginalURL  string    `json:"originalUrl"`
	ShortenedURL string    `json:"shortenedUrl"`
	Alias        string    `json:"alias"`
	Visits       int64     `json:"visits"`
	CreatedAt    time.Time `json:"createdAt"`
	Image        *string   `json:"image"`
}

type updatedLinkAttributes struct {
	OriginalURL  string `json:"originalUrl"`
	ShortenedURL string `json:"shortenedUrl"`
	Alias        string `json:"alias"`
}

type deletedLinkAttributes struct {
	Message string `json:"message"`
}

func shortenedURL(baseURL, alias string) string {
	return strings.TrimRight(baseURL, "/") + "/" + alias
}

func toResource(link *entity.Link, attributes any) response.Resource {
	return response.Resource{
		Type:       resourceType,
		ID:         link.ID.String(),
		Attributes: attributes,
	}
}

func toCreatedLinkResponse(baseURL string, link *entity.Link) response.Response {
	return response.SuccessResponse(toResource(link, createdLinkAttributes{
		OriginalURL:  link.OriginalURL,
		ShortenedURL: shortenedURL(baseURL, link.Alias),
		Image:        link.PreviewImage,
	}))
}

func toLinkListResponse(baseURL string, links []*entity.Link) response.Response {
	data := make([]response.Resource, 0, len(links))

	for _, link := range links {
		data = append(data, toResource(link, linkAttributes{
			OriginalURL:  link.OriginalURL,
			ShortenedURL: shortenedURL(baseURL, link.Alias),
			Alias:        link.Alias,
			Visits:       link.Visits,
			CreatedAt:    link.CreatedAt,
			Image:        link.PreviewImage,
		}))
	}

	return response.SuccessResponse(data)
}

func toUpdatedLinkResponse(baseURL string, link *entity.Link) response.Response {
	return response.SuccessResponse(toResource(link, updatedLinkAttributes{
		OriginalURL:  link.OriginalURL,
		ShortenedURL: shortenedURL(baseURL, link.Alias),
		Alias:        link.Alias,
	}))
}

func toDeletedLinkResponse(link *entity.Link) response.Response {
	return response.SuccessResponse(toResource(link, deletedLinkAttributes{
		Message: deletedMessage,
	}))
}
