package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/techpal/techpal/internal/mail"
	"github.com/techpal/techpal/internal/platform"
)

var trustedMeetingDomains = []string{"zoom.us", "meet.google.com", "teams.microsoft.com", "teams.live.com"}

// CheckForMeetingLinks scans the inbox for video call invitations.
func CheckForMeetingLinks(mailbox mail.Mailbox) *Tool {
	return &Tool{
		Name: "check_for_meeting_links",
		Description: "Check emails for video call meeting links (Zoom, Google Meet, Teams). " +
			"Use when the user says 'do I have any meetings?' or 'how do I join my call?'",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			keywords := []string{"zoom", "meet.google", "teams", "meeting link", "join the call"}

			var lines []string
			found := 0
			for _, e := range mailbox.List() {
				matched := e.MeetingLink != ""
				if !matched {
					fullText := strings.ToLower(e.Subject + " " + e.Body)
					for _, kw := range keywords {
						if strings.Contains(fullText, kw) {
							matched = true
							break
						}
					}
				}
				if !matched {
					continue
				}
				found++
				lines = append(lines,
					"  From: "+senderName(e.From),
					"  Subject: "+e.Subject,
					"  Date: "+e.Date)
				if e.MeetingLink != "" {
					lines = append(lines, "  Meeting link: "+e.MeetingLink)
				}
				lines = append(lines, "")
			}

			if found == 0 {
				return TextResult("I don't see any meeting links in your recent emails. Are you expecting a call from someone? I can help you set one up."), nil
			}

			out := append([]string{"I found these meeting-related emails:", ""}, lines...)
			out = append(out, "Would you like me to help you join one of these meetings?")
			return TextResult(strings.Join(out, "\n")), nil
		},
	}
}

// JoinVideoCall opens a meeting link after checking the domain is a known
// video call provider. Unknown domains get a scam warning instead.
func JoinVideoCall(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "join_video_call",
		Description: "Help the user join a video call by opening the meeting link. " +
			"Use when the user has a Zoom, Google Meet, or Teams link to join.",
		Schema: objectSchema([]string{"meeting_link"}, map[string]any{
			"meeting_link": stringProp("The meeting URL (Zoom, Meet, or Teams link)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			link := in.Str("meeting_link", "")
			lower := strings.ToLower(link)

			trusted := false
			for _, d := range trustedMeetingDomains {
				if strings.Contains(lower, d) {
					trusted = true
					break
				}
			}
			if !trusted {
				return TextResult(fmt.Sprintf(
					"I'm not sure this is a real meeting link: %s\n\n"+
						"I only recognize links from Zoom (zoom.us), Google Meet (meet.google.com), "+
						"and Microsoft Teams (teams.microsoft.com).\n\n"+
						"If someone sent you this link claiming to be tech support or a government agency, "+
						"it could be a scam. Scammers sometimes use fake meeting links to get access to your computer.\n\n"+
						"If you're sure this is from someone you trust, let me know and I'll open it.", link)), nil
			}

			var appName string
			var steps []string
			switch {
			case strings.Contains(lower, "zoom"):
				appName = "Zoom"
				steps = []string{
					"I'm opening the Zoom link now.",
					"If a window pops up asking to open Zoom, click 'Open Zoom Meetings'.",
					"You'll see a preview of your camera, make sure you look okay!",
					"Click the blue 'Join' button.",
					"You're in! If you can't hear anyone, check that your speaker is on.",
				}
			case strings.Contains(lower, "meet.google"):
				appName = "Google Meet"
				steps = []string{
					"I'm opening Google Meet in your browser.",
					"You'll see a camera preview, check that you can see yourself.",
					"Click the big 'Join now' button.",
					"You're in! If your microphone is muted, click the microphone icon at the bottom.",
				}
			case strings.Contains(lower, "teams"):
				appName = "Microsoft Teams"
				steps = []string{
					"I'm opening the Teams meeting link.",
					"If it asks, choose 'Continue on this browser' or 'Open Microsoft Teams'.",
					"Click 'Join now' when you're ready.",
					"You're in! The microphone and camera buttons are at the top.",
				}
			}

			// Best effort; the steps are the real help.
			_ = caps.OpenURL(ctx, link)

			lines := []string{fmt.Sprintf("Let's get you into your %s call!", appName), ""}
			for i, step := range steps {
				lines = append(lines, fmt.Sprintf("  Step %d: %s", i+1, step))
			}
			lines = append(lines, "", "Take your time, I'm right here if you need help!")
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}
