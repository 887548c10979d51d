package connectors

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// maxSocialResults caps post searches so a single query cannot drag an
// entire timeline through the transport.
const maxSocialResults = 100

// socialAdapter implements the profile/posts search split shared by every
// social media platform. Platform differences live in the normalizer
// functions and the probe endpoint.
type socialAdapter struct {
	base
	probeEndpoint string
	profile       func(m map[string]any) any
	posts         func(raw any) any
}

func (a *socialAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	searchType := opts.SearchType
	if searchType == "" {
		searchType = "posts"
	}

	switch searchType {
	case "profile":
		if !validUsername(query) {
			return nil, newError(ErrValidation, "invalid username %q", query)
		}
		endpoint := fillTemplate(a.settings.ProfileEndpoint, map[string]string{"username": query})
		resp, err := a.get(ctx, endpoint, nil)
		if err != nil {
			return nil, err
		}
		return a.processProfile(resp.Body), nil

	case "posts":
		if strings.TrimSpace(query) == "" {
			return nil, newError(ErrValidation, "search query is empty")
		}
		count := opts.MaxResults
		if count <= 0 || count > maxSocialResults {
			count = maxSocialResults
		}
		resp, err := a.get(ctx, a.settings.SearchEndpoint, map[string]string{
			"q":     query,
			"count": strconv.Itoa(count),
		})
		if err != nil {
			return nil, err
		}
		return a.processPosts(resp.Body), nil

	default:
		return nil, a.unsupported("search type " + searchType)
	}
}

func (a *socialAdapter) processProfile(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("profile", raw, "unexpected profile payload")
	}
	return &Result{Service: a.service, Kind: "profile", Data: a.profile(m), Raw: raw}
}

func (a *socialAdapter) processPosts(raw any) *Result {
	return &Result{Service: a.service, Kind: "posts", Data: a.posts(raw), Raw: raw}
}

// ProcessData treats a map payload as a profile, the shape most callers
// hand back for re-normalization.
func (a *socialAdapter) ProcessData(raw any) *Result {
	if m := asMap(raw); m != nil {
		return &Result{Service: a.service, Kind: "profile", Data: a.profile(m), Raw: raw}
	}
	return a.degraded("unknown", raw, "unrecognized payload shape")
}

func (a *socialAdapter) TestConnection(ctx context.Context) (bool, string) {
	endpoint := a.probeEndpoint
	if a.settings.TestEndpoint != "" {
		endpoint = a.settings.TestEndpoint
	}
	resp, err := a.get(ctx, endpoint, nil)
	if err != nil {
		return false, fmt.Sprintf("%s connection failed: %v", a.service, err)
	}
	return true, fmt.Sprintf("%s connection successful with status %d", a.service, resp.StatusCode)
}

// Twitter

type TwitterProfile struct {
	Platform    string `json:"platform"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Followers   int    `json:"followers_count"`
	Following   int    `json:"following_count"`
	Tweets      int    `json:"tweets_count"`
	CreatedAt   string `json:"created_at"`
	Verified    bool   `json:"verified"`
	AvatarURL   string `json:"profile_image_url"`
	ProfileURL  string `json:"profile_url"`
}

type Tweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"created_at"`
	Likes     int       `json:"likes"`
	Retweets  int       `json:"retweets"`
	User      TweetUser `json:"user"`
	URL       string    `json:"url"`
}

type TweetUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Verified    bool   `json:"verified"`
}

type TwitterSearch struct {
	Platform string  `json:"platform"`
	Count    int     `json:"count"`
	Items    []Tweet `json:"items"`
}

func newTwitterAdapter(deps Deps) Adapter {
	a := &socialAdapter{
		base:          newBase("twitter", deps),
		probeEndpoint: "application/rate_limit_status",
	}
	a.profile = func(m map[string]any) any {
		return TwitterProfile{
			Platform:    a.service,
			Username:    str(m, "screen_name"),
			DisplayName: str(m, "name"),
			Description: str(m, "description"),
			Location:    str(m, "location"),
			Followers:   integer(m, "followers_count"),
			Following:   integer(m, "friends_count"),
			Tweets:      integer(m, "statuses_count"),
			CreatedAt:   str(m, "created_at"),
			Verified:    boolean(m, "verified"),
			AvatarURL:   str(m, "profile_image_url_https"),
			ProfileURL:  "https://twitter.com/" + str(m, "screen_name"),
		}
	}
	a.posts = func(raw any) any {
		statuses := subSlice(asMap(raw), "statuses")
		out := TwitterSearch{Platform: a.service, Count: len(statuses), Items: []Tweet{}}
		for _, item := range statuses {
			t := asMap(item)
			if t == nil {
				continue
			}
			user := subMap(t, "user")
			out.Items = append(out.Items, Tweet{
				ID:        str(t, "id_str"),
				Text:      str(t, "text"),
				CreatedAt: str(t, "created_at"),
				Likes:     integer(t, "favorite_count"),
				Retweets:  integer(t, "retweet_count"),
				User: TweetUser{
					ID:          str(user, "id_str"),
					Username:    str(user, "screen_name"),
					DisplayName: str(user, "name"),
					Verified:    boolean(user, "verified"),
				},
				URL: "https://twitter.com/" + str(user, "screen_name") + "/status/" + str(t, "id_str"),
			})
		}
		return out
	}
	return a
}

// Facebook

type FacebookProfile struct {
	Platform   string `json:"platform"`
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	About      string `json:"about"`
	Category   string `json:"category"`
	FanCount   int    `json:"fan_count"`
	Website    string `json:"website"`
	ProfileURL string `json:"profile_url"`
}

type FacebookPost struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Attachments []any  `json:"attachments,omitempty"`
}

type FacebookSearch struct {
	Platform string         `json:"platform"`
	Count    int            `json:"count"`
	Items    []FacebookPost `json:"items"`
}

func newFacebookAdapter(deps Deps) Adapter {
	a := &socialAdapter{
		base:          newBase("facebook", deps),
		probeEndpoint: "me",
	}
	a.profile = func(m map[string]any) any {
		return FacebookProfile{
			Platform:   a.service,
			ID:         str(m, "id"),
			Username:   str(m, "username"),
			Name:       str(m, "name"),
			About:      str(m, "about"),
			Category:   str(m, "category"),
			FanCount:   integer(m, "fan_count"),
			Website:    str(m, "website"),
			ProfileURL: "https://facebook.com/" + str(m, "id"),
		}
	}
	a.posts = func(raw any) any {
		posts := subSlice(asMap(raw), "data")
		out := FacebookSearch{Platform: a.service, Count: len(posts), Items: []FacebookPost{}}
		for _, item := range posts {
			p := asMap(item)
			if p == nil {
				continue
			}
			post := FacebookPost{
				ID:          str(p, "id"),
				Message:     str(p, "message"),
				CreatedTime: str(p, "created_time"),
				Type:        str(p, "type"),
				URL:         "https://facebook.com/" + str(p, "id"),
			}
			if attachments := subMap(p, "attachments"); attachments != nil {
				post.Attachments = subSlice(attachments, "data")
			}
			out.Items = append(out.Items, post)
		}
		return out
	}
	return a
}

// LinkedIn

type LinkedInProfile struct {
	Platform   string `json:"platform"`
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Headline   string `json:"headline"`
	Industry   string `json:"industry"`
	Location   string `json:"location"`
	ProfileURL string `json:"profile_url"`
}

type LinkedInSearch struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
	Items    []any  `json:"items"`
}

func newLinkedInAdapter(deps Deps) Adapter {
	a := &socialAdapter{
		base:          newBase("linkedin", deps),
		probeEndpoint: "me",
	}
	localized := func(m map[string]any, key string) string {
		return str(subMap(subMap(m, key), "localized"), "en_US")
	}
	a.profile = func(m map[string]any) any {
		return LinkedInProfile{
			Platform:   a.service,
			ID:         str(m, "id"),
			FirstName:  localized(m, "firstName"),
			LastName:   localized(m, "lastName"),
			Headline:   localized(m, "headline"),
			Industry:   str(subMap(m, "industry"), "name"),
			Location:   str(subMap(subMap(m, "location"), "preferredGeoPlace"), "name"),
			ProfileURL: "https://linkedin.com/in/" + str(m, "vanityName"),
		}
	}
	// LinkedIn exposes no post search, so the result is always empty.
	a.posts = func(raw any) any {
		return LinkedInSearch{Platform: a.service, Count: 0, Items: []any{}}
	}
	return a
}

// Instagram

type InstagramProfile struct {
	Platform   string `json:"platform"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Biography  string `json:"biography"`
	Followers  int    `json:"followers_count"`
	Following  int    `json:"following_count"`
	Posts      int    `json:"posts_count"`
	IsPrivate  bool   `json:"is_private"`
	IsVerified bool   `json:"is_verified"`
	AvatarURL  string `json:"profile_pic_url"`
	ProfileURL string `json:"profile_url"`
}

type InstagramPost struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	TakenAt   string `json:"taken_at"`
	MediaType string `json:"media_type"`
	URL       string `json:"url"`
}

type InstagramSearch struct {
	Platform string          `json:"platform"`
	Count    int             `json:"count"`
	Items    []InstagramPost `json:"items"`
}

func newInstagramAdapter(deps Deps) Adapter {
	a := &socialAdapter{
		base:          newBase("instagram", deps),
		probeEndpoint: "me",
	}
	a.profile = func(m map[string]any) any {
		edgeCount := func(key string) int {
			return integer(subMap(m, key), "count")
		}
		return InstagramProfile{
			Platform:   a.service,
			Username:   str(m, "username"),
			FullName:   str(m, "full_name"),
			Biography:  str(m, "biography"),
			Followers:  edgeCount("edge_followed_by"),
			Following:  edgeCount("edge_follow"),
			Posts:      edgeCount("edge_owner_to_timeline_media"),
			IsPrivate:  boolean(m, "is_private"),
			IsVerified: boolean(m, "is_verified"),
			AvatarURL:  str(m, "profile_pic_url"),
			ProfileURL: "https://instagram.com/" + str(m, "username"),
		}
	}
	a.posts = func(raw any) any {
		items := subSlice(asMap(raw), "items")
		out := InstagramSearch{Platform: a.service, Count: len(items), Items: []InstagramPost{}}
		for _, item := range items {
			p := asMap(item)
			if p == nil {
				continue
			}
			out.Items = append(out.Items, InstagramPost{
				ID:        str(p, "id"),
				Caption:   str(subMap(p, "caption"), "text"),
				Likes:     integer(p, "like_count"),
				Comments:  integer(p, "comment_count"),
				TakenAt:   str(p, "taken_at"),
				MediaType: str(p, "media_type"),
				URL:       "https://instagram.com/p/" + str(p, "code"),
			})
		}
		return out
	}
	return a
}

// Reddit. The API wraps payloads in {kind, data} envelopes.

type RedditProfile struct {
	Platform     string `json:"platform"`
	Username     string `json:"username"`
	CreatedUTC   string `json:"created_utc"`
	LinkKarma    int    `json:"link_karma"`
	CommentKarma int    `json:"comment_karma"`
	Verified     bool   `json:"verified"`
	AvatarURL    string `json:"icon_img"`
	ProfileURL   string `json:"profile_url"`
}

type RedditPost struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subreddit  string `json:"subreddit"`
	Author     string `json:"author"`
	Score      int    `json:"score"`
	Comments   int    `json:"num_comments"`
	CreatedUTC string `json:"created_utc"`
	URL        string `json:"url"`
}

type RedditSearch struct {
	Platform string       `json:"platform"`
	Count    int          `json:"count"`
	Items    []RedditPost `json:"items"`
}

func newRedditAdapter(deps Deps) Adapter {
	a := &socialAdapter{
		base:          newBase("reddit", deps),
		probeEndpoint: "api/v1/me",
	}
	a.profile = func(m map[string]any) any {
		if inner := subMap(m, "data"); inner != nil {
			m = inner
		}
		return RedditProfile{
			Platform:     a.service,
			Username:     str(m, "name"),
			CreatedUTC:   str(m, "created_utc"),
			LinkKarma:    integer(m, "link_karma"),
			CommentKarma: integer(m, "comment_karma"),
			Verified:     boolean(m, "verified"),
			AvatarURL:    str(m, "icon_img"),
			ProfileURL:   "https://reddit.com/user/" + str(m, "name"),
		}
	}
	a.posts = func(raw any) any {
		children := subSlice(subMap(asMap(raw), "data"), "children")
		out := RedditSearch{Platform: a.service, Count: len(children), Items: []RedditPost{}}
		for _, child := range children {
			p := subMap(asMap(child), "data")
			if p == nil {
				continue
			}
			out.Items = append(out.Items, RedditPost{
				ID:         str(p, "id"),
				Title:      str(p, "title"),
				Subreddit:  str(p, "subreddit"),
				Author:     str(p, "author"),
				Score:      integer(p, "score"),
				Comments:   integer(p, "num_comments"),
				CreatedUTC: str(p, "created_utc"),
				URL:        "https://reddit.com" + str(p, "permalink"),
			})
		}
		return out
	}
	return a
}
