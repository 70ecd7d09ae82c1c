package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/youtube/v3"
)

var (
	// ErrChannelNotFound is returned when YouTube has no channel for a lookup.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrUnsupportedURL is returned for URLs that do not identify a channel.
	ErrUnsupportedURL = errors.New("unsupported YouTube URL format")
)

// channelResolver maps channel URLs to channel IDs.
type channelResolver struct {
	service *youtube.Service
}

func newChannelResolver(service *youtube.Service) *channelResolver {
	return &channelResolver{service: service}
}

// ExtractChannelIDFromURL extracts the channel ID from the youtube.com URL
// formats /channel/<id>, /c/<name>, /user/<name> and /@<handle>.
func (r *channelResolver) ExtractChannelIDFromURL(ctx context.Context, channelURL string) (string, error) {
	parsedURL, err := url.Parse(channelURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Host == "" && !strings.Contains(channelURL, "://") {
		// Accept scheme-less input such as "youtube.com/@handle".
		if parsedURL, err = url.Parse("https://" + channelURL); err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
	}

	host := strings.ToLower(parsedURL.Hostname())
	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		segment := firstPathSegment(parsedURL.Path)
		switch {
		case strings.HasPrefix(parsedURL.Path, "/channel/") && segment != "":
			return segment, nil
		case (strings.HasPrefix(parsedURL.Path, "/c/") || strings.HasPrefix(parsedURL.Path, "/user/")) && segment != "":
			return r.getChannelIDFromUsername(ctx, segment)
		case strings.HasPrefix(parsedURL.Path, "/@"):
			handle := strings.TrimPrefix(strings.SplitN(strings.TrimPrefix(parsedURL.Path, "/"), "/", 2)[0], "@")
			if handle == "" {
				break
			}
			return r.getChannelIDFromHandle(ctx, handle)
		}
	case host == "youtu.be":
		return "", fmt.Errorf("%w: youtu.be URLs are video URLs, not channel URLs", ErrUnsupportedURL)
	}

	return "", ErrUnsupportedURL
}

// firstPathSegment returns the segment after the leading one, so
// "/channel/UC123/videos" yields "UC123".
func firstPathSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (r *channelResolver) getChannelIDFromUsername(ctx context.Context, username string) (string, error) {
	response, err := r.service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("error looking up username %s: %w", username, err)
	}
	if len(response.Items) == 0 {
		return "", fmt.Errorf("%w: no channel for %s", ErrChannelNotFound, username)
	}
	return response.Items[0].Id, nil
}

func (r *channelResolver) getChannelIDFromHandle(ctx context.Context, handle string) (string, error) {
	response, err := r.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("error looking up handle @%s: %w", handle, err)
	}
	if len(response.Items) > 0 {
		return response.Items[0].Id, nil
	}

	// Fall back to search for handles the direct lookup does not know.
	searchResponse, err := r.service.Search.List([]string{"snippet"}).
		Q("@" + handle).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("error searching for handle @%s: %w", handle, err)
	}
	if len(searchResponse.Items) == 0 || searchResponse.Items[0].Id == nil || searchResponse.Items[0].Id.ChannelId == "" {
		return "", fmt.Errorf("%w: no channel for handle @%s", ErrChannelNotFound, handle)
	}
	return searchResponse.Items[0].Id.ChannelId, nil
}
