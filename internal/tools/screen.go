package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/platform"
)

// ClickButton clicks a named button in an open window. Without UI automation
// the user gets pointed at the button instead.
func ClickButton(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "click_button",
		Description: "Click a button in any open window by its name. " +
			"Uses the accessibility tree to find the right button.",
		Schema: objectSchema([]string{"window_title", "button_name"}, map[string]any{
			"window_title": stringProp("Title of the window (e.g., 'Outlook', 'Zoom')"),
			"button_name":  stringProp("Name of the button to click (e.g., 'Send', 'Join Meeting')"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			window := in.Str("window_title", "")
			button := in.Str("button_name", "")
			if !caps.SupportsUIAutomation() {
				return TextResult(fmt.Sprintf(
					"I can see you want to click '%s' in %s. "+
						"Here's how: Look for the '%s' button in the %s window and click it.",
					button, window, button, window)), nil
			}
			if err := caps.Click(ctx, window, button); err != nil {
				return TextResult(fmt.Sprintf(
					"I couldn't click it myself this time. "+
						"Look for the '%s' button in the %s window and click it.",
					button, window)), nil
			}
			return TextResult(fmt.Sprintf("Done! I clicked '%s' in %s.", button, window)), nil
		},
	}
}

// TypeText types into a field in an open window.
func TypeText(caps platform.Capabilities) *Tool {
	return &Tool{
		Name:        "type_text",
		Description: "Type text into a field in any open window.",
		Schema: objectSchema([]string{"window_title", "text"}, map[string]any{
			"window_title": stringProp("Title of the window"),
			"text":         stringProp("The text to type"),
			"field_name":   stringProp("Name of the text field (optional, uses focused field if empty)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			window := in.Str("window_title", "")
			text := in.Str("text", "")
			field := in.Str("field_name", "")
			instructions := func() Result {
				if field != "" {
					return TextResult(fmt.Sprintf("Please click on the '%s' field in %s and type: %s", field, window, text))
				}
				return TextResult(fmt.Sprintf("Please type this in %s: %s", window, text))
			}
			if !caps.SupportsUIAutomation() {
				return instructions(), nil
			}
			if err := caps.Type(ctx, window, text); err != nil {
				return instructions(), nil
			}
			return TextResult(fmt.Sprintf("Done! I typed that into %s.", window)), nil
		},
	}
}

// SaveDocumentAsPDF converts the open document to PDF. The automated path
// needs a desktop helper, so this walks the user through Save As.
func SaveDocumentAsPDF() *Tool {
	return &Tool{
		Name: "save_document_as_pdf",
		Description: "Save the currently open Word document as a PDF file. " +
			"Use when the user wants to convert their Word document to PDF. " +
			"The document must already be open in Microsoft Word.",
		Schema: objectSchema([]string{"save_path"}, map[string]any{
			"save_path": stringProp("Full path where to save the PDF"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			return TextResult(
				"Here's how to save your document as a PDF:\n\n" +
					"  Step 1: Click 'File' in the top-left corner\n" +
					"  Step 2: Click 'Save As'\n" +
					"  Step 3: In the 'Save as type' dropdown, choose 'PDF'\n" +
					"  Step 4: Click 'Save'\n\n" +
					"Your PDF will be saved! Let me know when you're done."), nil
		},
	}
}

// SmartSaveDocument saves content as a clearly named, date-stamped file so
// the user can find it again.
func SmartSaveDocument(savedDir string) *Tool {
	return &Tool{
		Name: "smart_save_document",
		Description: "Save content as a clearly named document with date and time stamp. " +
			"Use whenever the user creates, downloads, or works on a document. " +
			"Automatically picks a clear filename with today's date so they can find it later.",
		Schema: objectSchema([]string{"content"}, map[string]any{
			"content":  stringProp("The text content to save"),
			"doc_type": stringProp("Type of document: 'note', 'letter', 'list', 'instructions', 'recipe', 'other'"),
			"title":    stringProp("Optional short title (e.g., 'Grocery List', 'Letter to Sarah'). If empty, auto-generates."),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			content := in.Str("content", "")
			docType := in.Str("doc_type", "note")
			title := strings.TrimSpace(in.Str("title", ""))

			now := time.Now()
			cleanTitle := sanitizeTitle(title)
			if cleanTitle == "" {
				cleanTitle = strings.ToUpper(docType[:1]) + docType[1:]
			}
			filename := fmt.Sprintf("%s - %s.txt", cleanTitle, now.Format("01-02-2006_0304PM"))

			if err := os.MkdirAll(savedDir, 0755); err != nil {
				return Result{}, fmt.Errorf("create documents directory: %w", err)
			}
			path := filepath.Join(savedDir, filename)
			header := fmt.Sprintf("--- %s ---\nSaved by TechPal on %s at %s\n\n",
				cleanTitle, now.Format("January 2 2006"), now.Format("03-04 PM"))
			if err := os.WriteFile(path, []byte(header+content), 0644); err != nil {
				return Result{}, fmt.Errorf("write document: %w", err)
			}

			return TextResult(fmt.Sprintf(
				"Saved! I put it in your Documents folder with a clear name:\n\n"+
					"  File: %s\n  Location: %s\n\n"+
					"The date is in the name so you can always find it. "+
					"Would you like me to open it or email it to someone?", filename, savedDir)), nil
		},
	}
}

func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == ' ', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// DescribeScreenAction provides step-by-step instructions for common tasks
// when automation isn't available.
func DescribeScreenAction() *Tool {
	type guideKey struct {
		app  string
		task string
	}
	guides := map[guideKey][]string{
		{"zoom", "join"}: {
			"Look for the Zoom link in your email or message.",
			"Click on the blue link, it should open Zoom.",
			"If Zoom asks, click 'Open Zoom Meetings'.",
			"Click the big blue 'Join' button.",
			"You're in! You should see yourself on camera.",
		},
		{"zoom", "unmute"}: {
			"Look at the bottom-left of the Zoom window.",
			"You'll see a microphone icon.",
			"If it has a red line through it, click it to unmute.",
			"Now they can hear you!",
		},
		{"outlook", "send"}: {
			"Click 'New Email' at the top left.",
			"In the 'To' field, type the person's email address.",
			"Click in the big white area and type your message.",
			"When you're ready, click the 'Send' button.",
		},
		{"chrome", "print"}: {
			"With the page open, press Ctrl and P at the same time.",
			"A print window will appear.",
			"Make sure the right printer is selected at the top.",
			"Click the 'Print' button.",
		},
	}

	return &Tool{
		Name: "describe_screen_action",
		Description: "When automated methods aren't available, provide clear step-by-step " +
			"instructions the user can follow themselves.",
		Schema: objectSchema([]string{"task", "app_name"}, map[string]any{
			"task":     stringProp("What the user wants to do (e.g., 'join zoom meeting', 'send email')"),
			"app_name": stringProp("Which app they're using (e.g., 'Zoom', 'Outlook', 'Chrome')"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			task := in.Str("task", "")
			appName := in.Str("app_name", "")
			taskLower := strings.ToLower(task)
			appLower := strings.ToLower(appName)

			for key, steps := range guides {
				if strings.Contains(appLower, key.app) && strings.Contains(taskLower, key.task) {
					lines := []string{fmt.Sprintf("Here's how to %s in %s:", task, appName), ""}
					for i, step := range steps {
						lines = append(lines, fmt.Sprintf("  Step %d: %s", i+1, step))
					}
					lines = append(lines, "", "Take it one step at a time, no rush!")
					return TextResult(strings.Join(lines, "\n")), nil
				}
			}

			return TextResult(fmt.Sprintf(
				"I'm not sure exactly how to help with '%s' in %s automatically, "+
					"but I can walk you through it step by step. Can you tell me what you see on your screen right now?",
				task, appName)), nil
		},
	}
}

// ReadMyScreen captures the user's screen for vision analysis. Without
// capture support the user describes the screen instead.
func ReadMyScreen(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "read_my_screen",
		Description: "Take a screenshot of the user's screen so you can SEE what they see. " +
			"Use when the user says 'what's on my screen?', 'I see a popup', " +
			"'what does this error say?', or 'what should I click?'",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			if !caps.SupportsScreenCapture() {
				return TextResult(
					"I can't see your screen from here, but I'd like to help! " +
						"Can you describe what you see? For example, what does the message say, " +
						"or what buttons do you see?"), nil
			}
			shot, err := caps.CaptureScreen(ctx)
			if err != nil {
				return TextResult(
					"I had trouble taking a picture of your screen. " +
						"Can you tell me what you see? Read me any messages or describe the buttons."), nil
			}
			return PartsResult(
				domain.ImagePart(shot),
				domain.TextPart("Here's a picture of the screen right now. "+
					"Describe what you see in plain language and say what to do next."),
			), nil
		},
	}
}

// VerifyScreenStep checks whether a previous instruction was completed.
func VerifyScreenStep(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "verify_screen_step",
		Description: "Take a screenshot to verify the user completed a step correctly. " +
			"Use after giving instructions to check that the expected result is visible. " +
			"This is your way of checking their work, like looking over their shoulder.",
		Schema: objectSchema([]string{"expected"}, map[string]any{
			"expected": stringProp("What should be visible on screen if the step worked"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			expected := strings.TrimSpace(in.Str("expected", ""))
			if expected == "" {
				return TextResult("I need to know what to look for. What should be on the screen?"), nil
			}
			if caps.SupportsScreenCapture() {
				if shot, err := caps.CaptureScreen(ctx); err == nil {
					return PartsResult(
						domain.ImagePart(shot),
						domain.TextPart(fmt.Sprintf(
							"Look at this screenshot and check whether this is visible: %q. "+
								"Tell the user whether the step worked and what to do next.", expected)),
					), nil
				}
			}
			return TextResult(fmt.Sprintf(
				"I was checking if this worked: %q\n"+
					"I can't see your screen from here. "+
					"Can you tell me, do you see what we expected? "+
					"Describe what's on your screen and I'll help from there!", expected)), nil
		},
	}
}
