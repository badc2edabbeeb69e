// Package profileview holds the client-side state of the company profile
// page: the committed profile, an edit draft and a transient notice.
package profileview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"tasklink/internal/models"
)

const (
	profilePath    = "/api/profile/company"
	detailsPath    = "/api/details/company"
	onboardingPath = "/api/auth/details/company"

	// DefaultNoticeDelay is how long a notice stays visible.
	DefaultNoticeDelay = 3 * time.Second

	SuccessMessage = "Profile updated successfully!"
)

var (
	// ErrUnknownField is returned by Set for names outside the editable set.
	ErrUnknownField = errors.New("unknown profile field")
	// ErrNotLoaded is returned by Submit when Open never established whether
	// the account has a stored profile.
	ErrNotLoaded = errors.New("profile has not been loaded")
)

// loadState records what Open learned about the server-side profile.
type loadState int

const (
	loadUnknown loadState = iota
	loadMissing
	loadStored
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. The default wraps time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NoticeKind distinguishes success and error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the transient message shown after a submit.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Placeholder is shown when the account has no stored profile yet.
func Placeholder() models.Company {
	return models.Company{
		CompanyName:   "TechFlow Solutions",
		Website:       "www.techflow.io",
		CompanyType:   "Software Development",
		Location:      "Bangalore, India",
		ContactPerson: "Siddharth Verma",
		ContactPhone:  "+91 98765 43210",
		Description:   "TechFlow Solutions is a leading software development company specializing in cloud-native applications and AI-driven automation tools for modern enterprises.",
		Email:         "contact@techflow.io",
	}
}

// Options configures a View. Zero values pick the defaults.
type Options struct {
	NoticeDelay time.Duration
	AfterFunc   AfterFunc
	Cache       *Cache
}

// View is safe for concurrent use.
type View struct {
	baseURL string
	token   string
	client  Doer

	delay     time.Duration
	afterFunc AfterFunc
	cache     *Cache

	mu          sync.Mutex
	committed   models.Company
	state       loadState
	draft       models.Company
	notice      *Notice
	noticeSeq   uint64
	noticeTimer Timer
}

func NewView(baseURL, token string, client Doer, opts Options) *View {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.NoticeDelay <= 0 {
		opts.NoticeDelay = DefaultNoticeDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	return &View{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		client:    client,
		delay:     opts.NoticeDelay,
		afterFunc: opts.AfterFunc,
		cache:     opts.Cache,
		committed: Placeholder(),
		draft:     Placeholder(),
		state:     loadUnknown,
	}
}

// Open loads the profile from the server and resets the draft to it. A 404
// shows the placeholder, marked as not persisted. On any other failure a
// cached copy for cacheUserID is shown when available and the error is still
// returned; without one the view stays unloaded and Submit refuses to write.
func (v *View) Open(ctx context.Context, cacheUserID uint) error {
	var out struct {
		Company models.Company `json:"company"`
	}
	err := v.call(ctx, http.MethodGet, profilePath, nil, &out)

	v.mu.Lock()
	defer v.mu.Unlock()

	var apiErr *APIError
	switch {
	case err == nil:
		v.commitLocked(out.Company)
		return nil
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		v.showLocked(Placeholder(), loadMissing)
		v.cache.Delete(cacheUserID)
		return nil
	default:
		if cached, ok := v.cache.Get(cacheUserID); ok {
			v.showLocked(cached, loadStored)
		}
		return err
	}
}

// BeginEdit resets the draft to the committed profile.
func (v *View) BeginEdit() {
	v.mu.Lock()
	v.draft = v.committed
	v.mu.Unlock()
}

// Set edits one draft field by its JSON name.
func (v *View) Set(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	d := &v.draft
	switch field {
	case "companyName":
		d.CompanyName = value
	case "companyType":
		d.CompanyType = value
	case "contactPerson":
		d.ContactPerson = value
	case "contactPhone":
		d.ContactPhone = value
	case "description":
		d.Description = value
	case "website":
		d.Website = value
	case "location":
		d.Location = value
	case "logoPath":
		d.LogoPath = value
	case "docPath":
		d.DocPath = value
	case "email":
		d.Email = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

type detailsRequest struct {
	CompanyName   string  `json:"companyName"`
	CompanyType   string  `json:"companyType"`
	ContactPerson string  `json:"contactPerson"`
	ContactPhone  string  `json:"contactPhone"`
	Description   string  `json:"description"`
	Website       string  `json:"website"`
	Location      string  `json:"location"`
	LogoPath      string  `json:"logoPath"`
	DocPath       string  `json:"docPath"`
	Email         *string `json:"email,omitempty"`
}

// Submit saves the draft. A stored profile is updated in place; an account
// without one is onboarded, and the placeholder email is never sent. When
// Open could not load anything Submit returns ErrNotLoaded without calling
// the server. On success the server's record replaces the committed profile
// in one step; on failure the committed profile and the draft are left as
// they were. Either way a notice is shown.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	d, state := v.draft, v.state
	if state == loadUnknown {
		v.showNoticeLocked(NoticeError, "Profile could not be loaded")
		v.mu.Unlock()
		return ErrNotLoaded
	}
	v.mu.Unlock()

	method, path := http.MethodPut, detailsPath
	email := &d.Email
	if state == loadMissing {
		method, path = http.MethodPost, onboardingPath
		if d.Email == Placeholder().Email || d.Email == "" {
			email = nil
		}
	}

	body := detailsRequest{
		CompanyName:   d.CompanyName,
		CompanyType:   d.CompanyType,
		ContactPerson: d.ContactPerson,
		ContactPhone:  d.ContactPhone,
		Description:   d.Description,
		Website:       d.Website,
		Location:      d.Location,
		LogoPath:      d.LogoPath,
		DocPath:       d.DocPath,
		Email:         email,
	}
	var out struct {
		Company models.Company `json:"company"`
	}
	err := v.call(ctx, method, path, body, &out)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		msg := "Failed to update profile"
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		v.showNoticeLocked(NoticeError, msg)
		return err
	}

	v.commitLocked(out.Company)
	v.showNoticeLocked(NoticeSuccess, SuccessMessage)
	return nil
}

// Profile returns the committed profile and whether it exists server-side.
func (v *View) Profile() (models.Company, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.committed, v.state == loadStored
}

func (v *View) Draft() models.Company {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Notice returns the visible notice, if any.
func (v *View) Notice() (Notice, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.notice == nil {
		return Notice{}, false
	}
	return *v.notice, true
}

// Completeness scores the committed profile.
func (v *View) Completeness() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.committed.Completeness()
}

func (v *View) commitLocked(p models.Company) {
	p.User = nil
	v.showLocked(p, loadStored)
	v.cache.Put(p)
}

// showLocked replaces the committed profile and restarts the draft from it.
func (v *View) showLocked(p models.Company, state loadState) {
	v.committed = p
	v.draft = p
	v.state = state
}

func (v *View) showNoticeLocked(kind NoticeKind, msg string) {
	if v.noticeTimer != nil {
		v.noticeTimer.Stop()
	}
	v.noticeSeq++
	seq := v.noticeSeq
	v.notice = &Notice{Kind: kind, Message: msg}
	v.noticeTimer = v.afterFunc(v.delay, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		// A newer notice owns the slot.
		if v.noticeSeq == seq {
			v.notice = nil
			v.noticeTimer = nil
		}
	})
}

func (v *View) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v.token != "" {
		req.Header.Set("Authorization", "Bearer "+v.token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e models.ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
