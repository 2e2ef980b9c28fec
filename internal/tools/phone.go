package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/domain"
)

// PhoneController talks to the companion screenshot server running next to
// the user's phone. An empty base URL means the feature isn't set up.
type PhoneController struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewPhoneController builds a controller for the given server URL.
func NewPhoneController(baseURL string, httpClient *http.Client) *PhoneController {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &PhoneController{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient}
}

func (p *PhoneController) configured() bool {
	return p.BaseURL != ""
}

func (p *PhoneController) screenshot(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/screenshot", nil)
	if err != nil {
		return "", err
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Image == "" {
		return "", fmt.Errorf("empty screenshot payload")
	}
	return payload.Image, nil
}

func (p *PhoneController) post(ctx context.Context, path string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CapturePhoneScreen screenshots the user's phone for vision analysis.
func CapturePhoneScreen(phone *PhoneController) *Tool {
	return &Tool{
		Name: "capture_phone_screen",
		Description: "Take a screenshot of the user's iPhone screen so you can SEE what's on their phone. " +
			"Use when they say 'look at my phone', 'what's on my phone screen?', " +
			"'I got a weird text', or 'help me with my iPhone'.",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			if !phone.configured() {
				return TextResult("Phone screen capture isn't set up yet. I can help with your computer screen instead, just say 'read my screen'."), nil
			}
			image, err := phone.screenshot(ctx)
			if err != nil {
				return TextResult("I couldn't connect to the phone right now. Make sure the phone server is running and try again."), nil
			}
			return PartsResult(
				domain.ImagePart(image),
				domain.TextPart(
					"Here is a screenshot of the user's iPhone screen. "+
						"Describe what you see in simple, plain language. "+
						"If there's a suspicious message or scam, warn them immediately. "+
						"Give step-by-step guidance: 'Tap the blue button that says Settings.'"),
			), nil
		},
	}
}

// TapPhoneScreen taps a coordinate on the phone screen.
func TapPhoneScreen(phone *PhoneController) *Tool {
	return &Tool{
		Name: "tap_phone_screen",
		Description: "Tap a specific location on the user's iPhone screen. Use this AFTER viewing " +
			"a phone screenshot with capture_phone_screen to interact with the phone. " +
			"The top-left corner of the phone screen is (0, 0).",
		Schema: objectSchema([]string{"x", "y"}, map[string]any{
			"x": intProp("X coordinate to tap (pixels from left edge of phone screen)"),
			"y": intProp("Y coordinate to tap (pixels from top edge of phone screen)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			if !phone.configured() {
				return TextResult("Phone control isn't set up yet."), nil
			}
			x := in.Int("x", 0)
			y := in.Int("y", 0)
			if _, err := phone.post(ctx, "/tap", map[string]int{"x": x, "y": y}); err != nil {
				return TextResult("I couldn't tap the phone screen. The phone server might not be running."), nil
			}
			return TextResult(fmt.Sprintf("Tapped the phone screen at (%d, %d). Use capture_phone_screen to see what happened.", x, y)), nil
		},
	}
}

// OpenPhoneApp launches an app on the phone.
func OpenPhoneApp(phone *PhoneController) *Tool {
	return &Tool{
		Name: "open_phone_app",
		Description: "Open an app on the user's iPhone. Use when they say 'open Settings on my phone', " +
			"'go to Messages', 'open Safari', etc. Available apps: Settings, Messages, Safari, " +
			"Photos, Mail, Phone, Calendar, Maps, Camera, Notes.",
		Schema: objectSchema([]string{"app_name"}, map[string]any{
			"app_name": stringProp("Name of the app to open (e.g., 'Settings', 'Messages', 'Safari')"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			if !phone.configured() {
				return TextResult("Phone control isn't set up yet."), nil
			}
			appName := in.Str("app_name", "")
			out, err := phone.post(ctx, "/launch", map[string]string{"app": strings.ToLower(appName)})
			if err != nil {
				return TextResult("I couldn't open the app. The phone server might not be running."), nil
			}
			if status, _ := out["status"].(string); status == "launched" {
				return TextResult(fmt.Sprintf("Opened %s on the phone. Use capture_phone_screen to see what's showing now.", appName)), nil
			}
			msg, _ := out["message"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			return TextResult(fmt.Sprintf("Couldn't open %s: %s", appName, msg)), nil
		},
	}
}
