package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/harshith-118/AI-Interviewer/internal/agent"
	"github.com/harshith-118/AI-Interviewer/internal/analysis"
	"github.com/harshith-118/AI-Interviewer/internal/config"
	"github.com/harshith-118/AI-Interviewer/internal/export"
	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/session"
)

// App represents the desktop interviewer. It drives a single local session
// through the same agent the web server uses.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	agent      *agent.InterviewAgent
	session    *session.Session
	logger     *slog.Logger

	// Interview tab
	fileLabel      *widget.Label
	uploadBtn      *widget.Button
	tempSlider     *widget.Slider
	tempLabel      *widget.Label
	maxTokensEntry *widget.Entry
	statusLabel    *widget.Label
	busy           *widget.ProgressBarInfinite
	questionLabel  *widget.Label
	answerEntry    *widget.Entry
	submitBtn      *widget.Button
	historyLabel   *widget.Label

	// Analyze tab
	analyzeBtn   *widget.Button
	summaryLabel *widget.Label

	view models.InterviewView
}

// NewApp creates the GUI around an agent built by the caller
func NewApp(cfg *config.Config, a *agent.InterviewAgent, logger *slog.Logger) *App {
	fa := app.New()
	w := fa.NewWindow("AI Interviewer")
	w.Resize(fyne.NewSize(900, 700))

	guiApp := &App{
		fyneApp:    fa,
		mainWindow: w,
		config:     cfg,
		agent:      a,
		session:    a.LocalSession(),
		logger:     logger,
	}
	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application and blocks until the window closes
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Start Interview", a.createInterviewTab()),
		container.NewTabItem("Export Q&A", a.createExportTab()),
		container.NewTabItem("Analyze Responses", a.createAnalyzeTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
}

// createInterviewTab builds the upload controls and the question loop
func (a *App) createInterviewTab() fyne.CanvasObject {
	defaults := models.DefaultGenerationParams()

	a.fileLabel = widget.NewLabel("No file selected")
	a.uploadBtn = widget.NewButton("Upload a file (Excel or PDF)", a.handleUpload)

	a.tempLabel = widget.NewLabel(fmt.Sprintf("%.1f", defaults.Temperature))
	a.tempSlider = widget.NewSlider(models.MinTemperature, models.MaxTemperature)
	a.tempSlider.Step = 0.1
	a.tempSlider.SetValue(float64(defaults.Temperature))
	a.tempSlider.OnChanged = func(v float64) {
		a.tempLabel.SetText(fmt.Sprintf("%.1f", v))
	}

	a.maxTokensEntry = widget.NewEntry()
	a.maxTokensEntry.SetText(strconv.Itoa(defaults.MaxOutputTokens))

	settings := widget.NewForm(
		widget.NewFormItem("Temperature (creativity)", container.NewBorder(nil, nil, nil, a.tempLabel, a.tempSlider)),
		widget.NewFormItem("Max Tokens", a.maxTokensEntry),
	)

	a.statusLabel = widget.NewLabel("Upload a file to generate interview questions based on its content.")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.busy = widget.NewProgressBarInfinite()
	a.busy.Hide()

	a.questionLabel = widget.NewLabel("")
	a.questionLabel.Wrapping = fyne.TextWrapWord
	a.questionLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.answerEntry = widget.NewMultiLineEntry()
	a.answerEntry.Wrapping = fyne.TextWrapWord
	a.answerEntry.SetPlaceHolder("Your answer...")
	a.answerEntry.SetMinRowsVisible(4)
	a.answerEntry.Disable()

	a.submitBtn = widget.NewButton("Submit answer", a.handleAnswer)
	a.submitBtn.Disable()

	a.historyLabel = widget.NewLabel("")
	a.historyLabel.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(container.NewVBox(
		widget.NewLabel("AI Interviewer"),
		container.NewHBox(a.uploadBtn, a.fileLabel),
		widget.NewLabel("Model Settings"),
		settings,
		widget.NewSeparator(),
		a.statusLabel,
		a.busy,
		a.questionLabel,
		a.answerEntry,
		a.submitBtn,
		widget.NewSeparator(),
		widget.NewLabel("Previous Q&A Pairs:"),
		a.historyLabel,
	))
}

// createExportTab offers the two transcript formats
func (a *App) createExportTab() fyne.CanvasObject {
	textBtn := widget.NewButton("Download Q&A", a.handleExportText)
	excelBtn := widget.NewButton("Download as Excel", a.handleExportExcel)

	return container.NewVBox(
		widget.NewLabel("Export Q&A"),
		container.NewHBox(textBtn, excelBtn),
	)
}

// createAnalyzeTab asks the model for a review of the transcript
func (a *App) createAnalyzeTab() fyne.CanvasObject {
	a.summaryLabel = widget.NewLabel("")
	a.summaryLabel.Wrapping = fyne.TextWrapWord
	a.analyzeBtn = widget.NewButton("Analyze Responses", a.handleAnalyze)

	return container.NewBorder(
		container.NewVBox(widget.NewLabel("Analyze Responses"), a.analyzeBtn),
		nil, nil, nil,
		container.NewVScroll(a.summaryLabel),
	)
}

// createSettingsTab edits the saved configuration file
func (a *App) createSettingsTab() fyne.CanvasObject {
	providerSelect := widget.NewSelect([]string{
		config.ProviderGemini,
		config.ProviderOpenAI,
		config.ProviderVertexAI,
	}, nil)
	providerSelect.SetSelected(a.config.LLMProvider)

	modelEntry := widget.NewEntry()
	modelEntry.SetText(a.config.LLMModel)
	modelEntry.SetPlaceHolder("provider default")

	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)
	googleCredsBtn := a.browseButton(googleCredsEntry)

	promptsEntry := widget.NewEntry()
	promptsEntry.SetText(a.config.PromptsPath)
	promptsBtn := a.browseButton(promptsEntry)

	form := widget.NewForm(
		widget.NewFormItem("Provider", providerSelect),
		widget.NewFormItem("Model", modelEntry),
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, googleCredsBtn, googleCredsEntry)),
		widget.NewFormItem("Prompts File", container.NewBorder(nil, nil, nil, promptsBtn, promptsEntry)),
	)

	saveBtn := widget.NewButton("Save Settings", func() {
		updated := *a.config
		updated.LLMProvider = providerSelect.Selected
		updated.LLMModel = strings.TrimSpace(modelEntry.Text)
		updated.GoogleCloudProject = strings.TrimSpace(projectEntry.Text)
		updated.GoogleCloudLocation = strings.TrimSpace(locationEntry.Text)
		updated.GoogleCredentialsPath = strings.TrimSpace(googleCredsEntry.Text)
		updated.PromptsPath = strings.TrimSpace(promptsEntry.Text)

		if err := updated.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		if err := updated.Save(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		*a.config = updated

		dialog.ShowInformation("Success", "Settings saved. Restart the application to apply them.", a.mainWindow)
	})

	return container.NewVBox(
		form,
		widget.NewLabel("API keys are read from GOOGLE_API_KEY and OPENAI_API_KEY."),
		saveBtn,
	)
}

func (a *App) browseButton(target *widget.Entry) *widget.Button {
	return widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				target.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})
}

// currentParams reads the generation settings from the interview tab
func (a *App) currentParams() (models.GenerationParams, error) {
	maxTokens, err := strconv.Atoi(strings.TrimSpace(a.maxTokensEntry.Text))
	if err != nil {
		return models.GenerationParams{}, fmt.Errorf("max tokens must be a whole number")
	}
	params := models.GenerationParams{
		Temperature:     float32(a.tempSlider.Value),
		MaxOutputTokens: maxTokens,
	}
	return params, params.Validate()
}

// handleUpload picks a document and starts an interview over it
func (a *App) handleUpload() {
	params, err := a.currentParams()
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	d := dialog.NewFileOpen(func(uc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}

		name := uc.URI().Name()
		a.fileLabel.SetText(name)
		a.setBusy(true, "Processing "+name+"...")

		go func() {
			defer uc.Close()
			view, err := a.agent.Upload(context.Background(), a.session, name, uc, params)

			fyne.Do(func() {
				a.setBusy(false, "")
				if err != nil {
					a.statusLabel.SetText("An error occurred: " + err.Error())
					dialog.ShowError(err, a.mainWindow)
					return
				}
				a.showView(view)
			})
		}()
	}, a.mainWindow)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx", ".pdf"}))
	d.Show()
}

// handleAnswer records the typed answer and fetches the next question
func (a *App) handleAnswer() {
	answer := a.answerEntry.Text
	index := a.view.CurrentIndex
	a.setBusy(true, "Generating the next question...")

	go func() {
		view, err := a.agent.Answer(context.Background(), a.session, index, answer)

		fyne.Do(func() {
			a.setBusy(false, "")
			if err != nil {
				dialog.ShowError(err, a.mainWindow)
				a.showView(a.view)
				return
			}
			a.answerEntry.SetText("")
			a.showView(view)
		})
	}()
}

// setBusy toggles the spinner and locks the controls while a call runs
func (a *App) setBusy(busy bool, status string) {
	if busy {
		a.busy.Show()
		a.uploadBtn.Disable()
		a.submitBtn.Disable()
		a.answerEntry.Disable()
		a.statusLabel.SetText(status)
		return
	}
	a.busy.Hide()
	a.uploadBtn.Enable()
}

// showView renders an interview view into the interview tab
func (a *App) showView(view models.InterviewView) {
	a.view = view

	if content, ok := export.Text(view.QAPairs); ok {
		a.historyLabel.SetText(content)
	} else {
		a.historyLabel.SetText("")
	}

	if !view.Started {
		return
	}

	note := "Processing textual data..."
	if view.Kind == models.KindTabular {
		note = "Processing tabular data..."
	}

	if view.Completed {
		a.statusLabel.SetText(fmt.Sprintf("%s All %d questions for %s have been answered.", note, view.TotalUnits, view.DocumentName))
		a.questionLabel.SetText("")
		a.answerEntry.Disable()
		a.submitBtn.Disable()
		return
	}

	a.statusLabel.SetText(fmt.Sprintf("%s (%s)", note, view.DocumentName))
	a.questionLabel.SetText(fmt.Sprintf("Q%d: %s", view.CurrentIndex+1, view.CurrentQuestion))
	a.answerEntry.Enable()
	a.submitBtn.Enable()
}

// handleExportText saves the transcript as a text file
func (a *App) handleExportText() {
	content, err := a.agent.ExportText(a.session)
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		if _, err := uc.Write([]byte(content)); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Q&A exported to "+uc.URI().Name(), a.mainWindow)
	}, a.mainWindow)
	d.SetFileName(export.TextFileName)
	d.Show()
}

// handleExportExcel saves the transcript workbook
func (a *App) handleExportExcel() {
	pairs := a.agent.Pairs(a.session)
	if len(pairs) == 0 {
		dialog.ShowError(export.ErrNothingToExport, a.mainWindow)
		return
	}

	timestamp := time.Now().Format("2006-01-02_150405")
	defaultName := fmt.Sprintf("Interview_QA_%s.xlsx", timestamp)

	d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		outputPath := uc.URI().Path()
		uc.Close()

		savedPath, err := export.ExportToExcel(pairs, outputPath)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}
		if savedPath != outputPath {
			// The dialog created an empty file without the extension
			if err := os.Remove(outputPath); err != nil {
				a.logger.Warn("failed to remove placeholder file", "path", outputPath, "error", err)
			}
		}

		dialog.ShowInformation("Success", "Q&A exported to "+filepath.Base(savedPath), a.mainWindow)
	}, a.mainWindow)
	d.SetFileName(defaultName)
	d.Show()
}

// handleAnalyze requests the review in the background
func (a *App) handleAnalyze() {
	a.analyzeBtn.Disable()
	a.summaryLabel.SetText("Analyzing responses...")

	go func() {
		summary, err := a.agent.Analyze(context.Background(), a.session)

		fyne.Do(func() {
			a.analyzeBtn.Enable()
			switch {
			case errors.Is(err, analysis.ErrNoResponses):
				a.summaryLabel.SetText("No responses to analyze yet.")
			case err != nil:
				a.summaryLabel.SetText("")
				dialog.ShowError(err, a.mainWindow)
			default:
				a.summaryLabel.SetText(summary)
			}
		})
	}()
}
