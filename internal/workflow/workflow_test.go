package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routerctl/internal/browser"
)

const (
	testTimeout = 50 * time.Millisecond
	testPoll    = 5 * time.Millisecond
)

// countingStage records how many times it ran.
type countingStage struct {
	name  string
	err   error
	calls int
}

func (c *countingStage) StageName() string { return c.name }

func (c *countingStage) Execute(ctx context.Context, s browser.Session) error {
	c.calls++
	return c.err
}

type recordingObserver struct {
	started  []string
	finished []string
	errs     []error
}

func (o *recordingObserver) StageStarted(workflow, stage string) {
	o.started = append(o.started, workflow+"/"+stage)
}

func (o *recordingObserver) StageFinished(workflow, stage string, elapsed time.Duration, err error) {
	o.finished = append(o.finished, workflow+"/"+stage)
	o.errs = append(o.errs, err)
}

func TestAction_String(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{name: "navigate", action: Navigate("http://192.168.1.1"), want: "navigate http://192.168.1.1"},
		{name: "click", action: Click(browser.ID("mainMenu3")), want: "click id=mainMenu3"},
		{name: "type hides text", action: Type(browser.ID("tf1_password"), "hunter2"), want: "type id=tf1_password (7 chars)"},
		{name: "context click", action: ContextClick(browser.XPath("//tr")), want: "context-click xpath=//tr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.String())
			assert.NotContains(t, tt.action.String(), "hunter2")
		})
	}
}

func TestAction_Apply(t *testing.T) {
	ctx := context.Background()
	s := browser.NewFakeSession()
	s.Put(browser.ID("user"), &browser.FakeElement{Value: "stale"})
	s.Put(browser.ID("menu"), &browser.FakeElement{})

	actions := []Action{
		Navigate("http://router"),
		Clear(browser.ID("user")),
		Type(browser.ID("user"), "admin"),
		Hover(browser.ID("menu")),
		ContextClick(browser.ID("menu")),
		Click(browser.ID("menu")),
	}
	for _, a := range actions {
		require.NoError(t, a.Apply(ctx, s), a.String())
	}

	assert.Equal(t, "http://router", s.URL)
	assert.Equal(t, "admin", s.Get(browser.ID("user")).Value)
	assert.Equal(t, []string{
		"navigate http://router",
		"clear id=user",
		"type id=user",
		"hover id=menu",
		"context-click id=menu",
		"click id=menu",
	}, s.Calls)
}

func TestAction_ApplyMissingElement(t *testing.T) {
	err := Click(browser.ID("missing")).Apply(context.Background(), browser.NewFakeSession())

	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestPredicates(t *testing.T) {
	ctx := context.Background()
	s := browser.NewFakeSession()
	s.Put(browser.XPath("//body"), &browser.FakeElement{Text: "Welcome to Dashboard"})
	s.Put(browser.ID("hidden"), &browser.FakeElement{Hidden: true})
	s.Put(browser.ID("visible"), &browser.FakeElement{})

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{name: "text contained", pred: TextPresent(browser.XPath("//body"), "Dashboard"), want: true},
		{name: "text absent", pred: TextPresent(browser.XPath("//body"), "Login"), want: false},
		{name: "text element missing", pred: TextPresent(browser.ID("gone"), "x"), want: false},
		{name: "present", pred: Present(browser.ID("hidden")), want: true},
		{name: "not present", pred: Present(browser.ID("gone")), want: false},
		{name: "clickable", pred: Clickable(browser.ID("visible")), want: true},
		{name: "hidden not clickable", pred: Clickable(browser.ID("hidden")), want: false},
		{name: "missing not clickable", pred: Clickable(browser.ID("gone")), want: false},
		{name: "all hold", pred: All(Present(browser.ID("visible")), TextPresent(browser.XPath("//body"), "Welcome")), want: true},
		{name: "one of all fails", pred: All(Present(browser.ID("visible")), TextPresent(browser.XPath("//body"), "Jio_7")), want: false},
		{name: "empty all", pred: All(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pred.Check(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicate_SessionErrorPropagates(t *testing.T) {
	s := browser.NewFakeSession()
	require.NoError(t, s.Close())

	_, err := Present(browser.ID("x")).Check(context.Background(), s)

	assert.ErrorIs(t, err, browser.ErrSessionClosed)
}

func TestAll_String(t *testing.T) {
	p := All(Present(browser.ID("a")), TextPresent(browser.ID("b"), "ok"))

	assert.Equal(t, `id=a present and text "ok" in id=b`, p.String())
}

func TestStep_Success(t *testing.T) {
	s := browser.NewFakeSession()
	s.Put(browser.ID("save"), &browser.FakeElement{
		OnClick: func(fs *browser.FakeSession) {
			fs.Put(browser.CSS("#main > div.msgInfo"), &browser.FakeElement{Text: "Operation succeeded"})
		},
	})
	step := &Step{
		Name:         "save",
		Actions:      []Action{Click(browser.ID("save"))},
		Until:        TextPresent(browser.CSS("#main > div.msgInfo"), "Operation succeeded"),
		Timeout:      testTimeout,
		PollInterval: testPoll,
		Failure:      PasswordUpdateFailed,
	}

	assert.NoError(t, step.Execute(context.Background(), s))
}

func TestStep_ConditionAppearsLater(t *testing.T) {
	s := browser.NewFakeSession()
	checks := 0
	body := s.Put(browser.XPath("//body"), &browser.FakeElement{Text: "Loading"})
	step := &Step{
		Name: "wait",
		Until: predicateFunc(func(ctx context.Context, sess browser.Session) (bool, error) {
			checks++
			if checks == 3 {
				body.Text = "Dashboard"
			}
			return TextPresent(browser.XPath("//body"), "Dashboard").Check(ctx, sess)
		}),
		Timeout:      time.Second,
		PollInterval: testPoll,
		Failure:      LoginFailed,
	}

	require.NoError(t, step.Execute(context.Background(), s))
	assert.Equal(t, 3, checks)
}

func TestStep_TimeoutUsesStepFailure(t *testing.T) {
	s := browser.NewFakeSession()
	s.Put(browser.XPath("//body"), &browser.FakeElement{Text: "Invalid credentials"})
	step := &Step{
		Name:         "submit-credentials",
		Until:        TextPresent(browser.XPath("//body"), "Dashboard"),
		Timeout:      testTimeout,
		PollInterval: testPoll,
		Failure:      LoginFailed,
	}

	err := step.Execute(context.Background(), s)

	require.Error(t, err)
	var werr *Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, LoginFailed, werr.Kind)
	assert.Equal(t, "submit-credentials", werr.Step)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStep_MissingElementIsSessionError(t *testing.T) {
	step := &Step{
		Name:    "open-network-menu",
		Actions: []Action{Click(browser.ID("mainMenu3"))},
		Until:   Present(browser.ID("anything")),
		Timeout: testTimeout,
		Failure: NavigationFailed,
	}

	err := step.Execute(context.Background(), browser.NewFakeSession())

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, SessionError, kind)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
	assert.Contains(t, err.Error(), "click id=mainMenu3")
}

func TestStep_NilPredicateCompletesImmediately(t *testing.T) {
	s := browser.NewFakeSession()
	s.Put(browser.ID("mainMenu1"), &browser.FakeElement{})
	step := &Step{Name: "no-op", Actions: []Action{Click(browser.ID("mainMenu1"))}}

	require.NoError(t, step.Execute(context.Background(), s))
	assert.Equal(t, []string{"click id=mainMenu1"}, s.Calls)
}

func TestStep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	step := &Step{
		Name:         "wait",
		Until:        Present(browser.ID("never")),
		Timeout:      time.Minute,
		PollInterval: testPoll,
		Failure:      LoginFailed,
	}

	err := step.Execute(ctx, browser.NewFakeSession())

	kind, _ := KindOf(err)
	assert.Equal(t, SessionError, kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBranch(t *testing.T) {
	enable := &Step{Name: "enable", Actions: []Action{Click(browser.ID("enableMenu"))}}

	t.Run("runs chosen step", func(t *testing.T) {
		s := browser.NewFakeSession()
		s.Put(browser.ID("enableMenu"), &browser.FakeElement{})
		b := &Branch{Name: "toggle", Choose: func(context.Context, browser.Session) (*Step, error) { return enable, nil }}

		require.NoError(t, b.Execute(context.Background(), s))
		assert.Equal(t, []string{"click id=enableMenu"}, s.Calls)
	})

	t.Run("nil step is a no-op", func(t *testing.T) {
		s := browser.NewFakeSession()
		b := &Branch{Name: "toggle", Choose: func(context.Context, browser.Session) (*Step, error) { return nil, nil }}

		require.NoError(t, b.Execute(context.Background(), s))
		assert.Empty(t, s.Calls)
	})

	t.Run("choose error is session error", func(t *testing.T) {
		b := &Branch{Name: "toggle", Choose: func(context.Context, browser.Session) (*Step, error) {
			return nil, browser.NotFoundError(browser.ID("row"))
		}}

		err := b.Execute(context.Background(), browser.NewFakeSession())

		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, SessionError, kind)
		assert.Equal(t, "toggle", err.(*Error).Step)
	})
}

func TestRunner_RunSuccess(t *testing.T) {
	first := &countingStage{name: "first"}
	second := &countingStage{name: "second"}
	obs := &recordingObserver{}
	r := NewRunner(nil)
	r.AddObserver(obs)

	err := r.Run(context.Background(), Workflow{Name: "login", Stages: []Stage{first, second}}, browser.NewFakeSession())

	require.NoError(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, []string{"login/first", "login/second"}, obs.started)
	assert.Equal(t, []string{"login/first", "login/second"}, obs.finished)
}

func TestRunner_FailFast(t *testing.T) {
	first := &countingStage{name: "first"}
	failing := &countingStage{name: "failing", err: &Error{Kind: NavigationFailed, Step: "failing", Err: ErrTimeout}}
	after := &countingStage{name: "after"}
	obs := &recordingObserver{}
	r := NewRunner(nil)
	r.AddObserver(obs)

	err := r.Run(context.Background(), Workflow{Name: "navigate", Stages: []Stage{first, failing, after}}, browser.NewFakeSession())

	require.Error(t, err)
	var werr *Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, NavigationFailed, werr.Kind)
	assert.Equal(t, "navigate", werr.Workflow)
	assert.Equal(t, "failing", werr.Step)
	assert.Equal(t, 0, after.calls)
	assert.Len(t, obs.finished, 2)
	assert.Error(t, obs.errs[1])
}

func TestRunner_WrapsPlainErrors(t *testing.T) {
	stage := &countingStage{name: "raw", err: errors.New("browser crashed")}

	err := NewRunner(nil).Run(context.Background(), Workflow{Name: "logout", Stages: []Stage{stage}}, browser.NewFakeSession())

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, SessionError, kind)
	assert.Contains(t, err.Error(), "browser crashed")
	assert.Contains(t, err.Error(), "logout/raw")
}

func TestWorkflow_StageNames(t *testing.T) {
	wf := Workflow{Name: "w", Stages: []Stage{
		&Step{Name: "a"},
		&Branch{Name: "b"},
	}}

	assert.Equal(t, []string{"a", "b"}, wf.StageNames())
}

func TestFailureKind_IsValid(t *testing.T) {
	for _, k := range []FailureKind{LoginFailed, NavigationFailed, PasswordUpdateFailed, ChannelToggleFailed, LogoutFailed, SessionError} {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, FailureKind("bogus").IsValid())
}

func TestKindOf_NotWorkflowError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))

	assert.False(t, ok)
}

type predicateFunc func(ctx context.Context, s browser.Session) (bool, error)

func (f predicateFunc) Check(ctx context.Context, s browser.Session) (bool, error) { return f(ctx, s) }
func (f predicateFunc) String() string                                              { return "func" }
