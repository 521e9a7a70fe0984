//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/infra/dependency"
	"github.com/finance-tracker/client/test/integration/mock"
)

// agentContext holds the per-scenario agent under test and the last local
// API response.
type agentContext struct {
	upstream *mock.Upstream
	redis    *mock.Redis
	injector *dependency.Injector
	engine   *gin.Engine

	responseStatus int
	responseBody   []byte

	closers []func()
}

type contextKey struct{}

func getAgent(ctx context.Context) *agentContext {
	agent, _ := ctx.Value(contextKey{}).(*agentContext)
	return agent
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario boots a fresh agent against fresh backends for every
// scenario and registers the step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		agent, err := startAgent()
		if err != nil {
			return ctx, err
		}
		return context.WithValue(ctx, contextKey{}, agent), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if agent := getAgent(ctx); agent != nil {
			agent.close()
		}
		return ctx, nil
	})

	registerServerSteps(ctx)
	registerAgentSteps(ctx)
	registerAssertionSteps(ctx)
}

func startAgent() (*agentContext, error) {
	agent := &agentContext{}

	agent.upstream = mock.NewUpstream()
	agent.closers = append(agent.closers, agent.upstream.Close)

	redisMock, err := mock.NewRedis()
	if err != nil {
		agent.close()
		return nil, err
	}
	agent.redis = redisMock
	agent.closers = append(agent.closers, redisMock.Close)

	database, err := mock.NewDatabase()
	if err != nil {
		agent.close()
		return nil, err
	}
	agent.closers = append(agent.closers, func() { _ = database.Close() })

	cfg := &config.Config{
		Server: config.Server{Environment: "test"},
		Remote: config.Remote{
			BaseURL:        agent.upstream.URL(),
			RequestTimeout: 2 * time.Second,
		},
		Secure: config.Secure{Key: mock.SecureKey},
		Sync: config.Sync{
			Interval:     time.Minute,
			BaseCurrency: "BRL",
		},
	}

	agent.injector, err = dependency.NewInjector(cfg, database, redisMock.Client)
	if err != nil {
		agent.close()
		return nil, err
	}

	ctx := context.Background()
	if err := agent.injector.Tokens.SaveToken(ctx, "integration-test-token"); err != nil {
		agent.close()
		return nil, err
	}
	if err := agent.injector.Engine.Startup(ctx); err != nil {
		agent.close()
		return nil, err
	}
	if err := agent.injector.Agenda.Load(ctx); err != nil {
		agent.close()
		return nil, err
	}

	agent.engine = agent.injector.Router.Setup("test")
	return agent, nil
}

func (a *agentContext) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// request performs one request against the local API and records the
// response for the assertion steps.
func (a *agentContext) request(method, path string, body any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	a.engine.ServeHTTP(recorder, req)

	a.responseStatus = recorder.Code
	a.responseBody = recorder.Body.Bytes()
	return nil
}

func (a *agentContext) responseField(name string) (any, error) {
	parsed := map[string]any{}
	if err := json.Unmarshal(a.responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	value, ok := parsed[name]
	if !ok {
		return nil, fmt.Errorf("response has no field %q", name)
	}
	return value, nil
}

func registerServerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the remote server is down$`, theRemoteServerIsDown)
	ctx.Step(`^the remote server goes down$`, theRemoteServerIsDown)
	ctx.Step(`^the remote server comes back$`, theRemoteServerComesBack)
	ctx.Step(`^the server has an income "([^"]*)" of "([^"]*)"$`, theServerHasAnIncome)
	ctx.Step(`^the server has a client "([^"]*)" with cpf "([^"]*)"$`, theServerHasAClient)
}

func registerAgentSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I record an expense "([^"]*)" of "([^"]*)"$`, iRecordAnExpense)
	ctx.Step(`^I request the client list$`, iRequestTheClientList)
	ctx.Step(`^I schedule an event "([^"]*)" with guest "([^"]*)"$`, iScheduleAnEvent)
	ctx.Step(`^I request the agenda$`, iRequestTheAgenda)
	ctx.Step(`^a sync cycle runs$`, aSyncCycleRuns)
}

func registerAssertionSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the recorded transaction is pending confirmation$`, theRecordedTransactionIsPending)
	ctx.Step(`^the outbox holds (\d+) pending transactions?$`, theOutboxHoldsPendingTransactions)
	ctx.Step(`^the local balance is "([^"]*)"$`, theLocalBalanceIs)
	ctx.Step(`^the transaction list has (\d+) entr(?:y|ies)$`, theTransactionListHasEntries)
	ctx.Step(`^every listed transaction is confirmed$`, everyListedTransactionIsConfirmed)
	ctx.Step(`^the server holds (\d+) transactions?$`, theServerHoldsTransactions)
}

func theRemoteServerIsDown(ctx context.Context) error {
	getAgent(ctx).upstream.SetAvailable(false)
	return nil
}

func theRemoteServerComesBack(ctx context.Context) error {
	getAgent(ctx).upstream.SetAvailable(true)
	return nil
}

func theServerHasAnIncome(ctx context.Context, title, amount string) error {
	getAgent(ctx).upstream.AddTransaction(map[string]any{
		"title":           title,
		"amount":          amount,
		"type":            "income",
		"currency":        "BRL",
		"category":        "salary",
		"status":          "concluded",
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

func theServerHasAClient(ctx context.Context, name, cpf string) error {
	getAgent(ctx).upstream.AddClient(map[string]any{
		"name": name,
		"cpf":  cpf,
	})
	return nil
}

func iRecordAnExpense(ctx context.Context, description, amount string) error {
	return getAgent(ctx).request(http.MethodPost, "/api/v1/transactions", map[string]any{
		"description": description,
		"amount":      amount,
		"type":        "expense",
	})
}

func iRequestTheClientList(ctx context.Context) error {
	return getAgent(ctx).request(http.MethodGet, "/api/v1/clients", nil)
}

func iScheduleAnEvent(ctx context.Context, title, guest string) error {
	return getAgent(ctx).request(http.MethodPost, "/api/v1/events", map[string]any{
		"title":  title,
		"guests": []map[string]any{{"name": guest}},
	})
}

func iRequestTheAgenda(ctx context.Context) error {
	return getAgent(ctx).request(http.MethodGet, "/api/v1/events", nil)
}

func aSyncCycleRuns(ctx context.Context) error {
	// Failed cycles are a legitimate outcome under test; the assertions
	// check the resulting state.
	_ = getAgent(ctx).injector.Engine.SyncNow(ctx)
	return nil
}

func theResponseStatusShouldBe(ctx context.Context, expected int) error {
	agent := getAgent(ctx)
	if agent.responseStatus != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, agent.responseStatus, agent.responseBody)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	agent := getAgent(ctx)
	if !strings.Contains(string(agent.responseBody), expected) {
		return fmt.Errorf("expected response to contain %q, got %s", expected, agent.responseBody)
	}
	return nil
}

func theRecordedTransactionIsPending(ctx context.Context) error {
	confirmed, err := getAgent(ctx).responseField("confirmed")
	if err != nil {
		return err
	}
	if confirmed != false {
		return fmt.Errorf("expected confirmed=false, got %v", confirmed)
	}
	return nil
}

func theOutboxHoldsPendingTransactions(ctx context.Context, expected int) error {
	agent := getAgent(ctx)
	if err := agent.request(http.MethodGet, "/api/v1/sync/status", nil); err != nil {
		return err
	}
	pending, err := agent.responseField("pending")
	if err != nil {
		return err
	}
	if int(pending.(float64)) != expected {
		return fmt.Errorf("expected %d pending, got %v", expected, pending)
	}
	return nil
}

func theLocalBalanceIs(ctx context.Context, expected string) error {
	agent := getAgent(ctx)
	if err := agent.request(http.MethodGet, "/api/v1/balance", nil); err != nil {
		return err
	}
	balance, err := agent.responseField("balance")
	if err != nil {
		return err
	}
	if balance != expected {
		return fmt.Errorf("expected balance %q, got %v", expected, balance)
	}
	return nil
}

func theTransactionListHasEntries(ctx context.Context, expected int) error {
	agent := getAgent(ctx)
	if err := agent.request(http.MethodGet, "/api/v1/transactions", nil); err != nil {
		return err
	}
	total, err := agent.responseField("total")
	if err != nil {
		return err
	}
	if int(total.(float64)) != expected {
		return fmt.Errorf("expected %d transactions, got %v", expected, total)
	}
	return nil
}

func everyListedTransactionIsConfirmed(ctx context.Context) error {
	agent := getAgent(ctx)
	if err := agent.request(http.MethodGet, "/api/v1/transactions", nil); err != nil {
		return err
	}
	listed, err := agent.responseField("transactions")
	if err != nil {
		return err
	}
	for _, item := range listed.([]any) {
		tx := item.(map[string]any)
		if tx["confirmed"] != true {
			return fmt.Errorf("expected every transaction confirmed, found %v", tx["id"])
		}
	}
	return nil
}

func theServerHoldsTransactions(ctx context.Context, expected int) error {
	if got := getAgent(ctx).upstream.TransactionCount(); got != expected {
		return fmt.Errorf("expected the server to hold %d transactions, got %d", expected, got)
	}
	return nil
}
