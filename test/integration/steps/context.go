// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/procure-match/backend/config"
	"github.com/procure-match/backend/internal/infra/dependency"
	"github.com/procure-match/backend/internal/integration/notification"
	"github.com/procure-match/backend/internal/integration/persistence/model"
	"github.com/procure-match/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"
const defaultReviewerPassword = "SecurePass123!"

// testContext holds the state shared by the steps of a scenario.
type testContext struct {
	uri     string
	headers map[string]string
	client  *http.Client

	response *response

	db *mock.Db

	accessToken       string
	reviewerPasswords map[string]string
	purchaseOrders    map[string]uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	testDB         *mock.Db
	testRedis      *goredis.Client
	testSender     = notification.NewMockEmailSender()
	testWorker     *notification.Worker
	testServerPort int
	portInit       sync.Once
	serverInit     sync.Once
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb("procure_match", map[string]any{
			"reviewers":             &model.ReviewerModel{},
			"purchase_orders":       &model.PurchaseOrderModel{},
			"purchase_order_lines":  &model.PurchaseOrderLineModel{},
			"receiving_orders":      &model.ReceivingOrderModel{},
			"receiving_order_lines": &model.ReceivingOrderLineModel{},
			"invoices":              &model.InvoiceModel{},
			"invoice_lines":         &model.InvoiceLineModel{},
			"reconciliation_cycles": &model.ReconciliationCycleModel{},
			"match_resolutions":     &model.ResolutionModel{},
			"credit_notes":          &model.CreditNoteModel{},
			"audit_events":          &model.AuditEventModel{},
			"notification_queue":    &model.NotificationQueueModel{},
		}),
	}

	testDB = test.db
	testRedis = mock.NewRedis()

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Reviewer setup steps
	ctx.Given(`^a reviewer exists with email "([^"]*)" and password "([^"]*)"$`, test.aReviewerExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Document setup steps
	ctx.Given(`^a purchase order "([^"]*)" from supplier "([^"]*)" with lines:$`, test.aPurchaseOrderFromSupplierWithLines)
	ctx.Given(`^a receiving order for "([^"]*)" in "([^"]*)" condition with lines:$`, test.aReceivingOrderForInConditionWithLines)
	ctx.Given(`^an invoice for "([^"]*)" with lines:$`, test.anInvoiceForWithLines)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Notification steps
	ctx.When(`^the notification worker processes the queue$`, test.theNotificationWorkerProcessesTheQueue)
	ctx.Then(`^an email should have been sent to "([^"]*)"$`, test.anEmailShouldHaveBeenSentTo)
	ctx.Then(`^no email should have been sent$`, test.noEmailShouldHaveBeenSent)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.reviewerPasswords = make(map[string]string)
	t.purchaseOrders = make(map[string]uuid.UUID)

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	if testRedis != nil {
		_ = mock.ClearRedis(testRedis)
	}
	testSender.Reset()
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		cfg := &config.Config{
			Server: config.ServerConfig{
				Environment: "test",
			},
			JWT: config.JWTConfig{
				Secret:            testJWTSecret,
				AccessTokenExpiry: 15 * time.Minute,
			},
			Email: config.EmailConfig{
				FromName:     "Procure Match",
				FromEmail:    "no-reply@procure-match.example",
				PollInterval: 50 * time.Millisecond,
				BatchSize:    10,
			},
			Matching: config.MatchingConfig{
				QuantityTolerance:   decimal.Zero,
				PriceTolerance:      decimal.NewFromFloat(0.05),
				FullMatchPercent:    decimal.NewFromInt(100),
				PartialMatchPercent: decimal.NewFromInt(80),
			},
		}

		injector, err := dependency.NewInjector(cfg, testDB.DbConn, testRedis, testSender)
		if err != nil {
			panic("failed to wire test server: " + err.Error())
		}
		testWorker = injector.Worker

		engine := injector.Router.Setup("test")

		go func() {
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", testServerPort),
				Handler: engine,
			}
			_ = server.ListenAndServe()
		}()
	})

	// Wait for the server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) aReviewerExistsWithEmailAndPassword(email, password string) error {
	t.reviewerPasswords[email] = password

	now := time.Now().UTC()
	reviewer := &model.ReviewerModel{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test Reviewer",
		PasswordHash: hashPassword(password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return t.db.DbConn.Create(reviewer).Error
}

func hashPassword(password string) string {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash password: %v", err))
	}
	return string(hashedBytes)
}

// iAmLoggedInAs seeds the reviewer when missing and performs a real login
// through the API, capturing the issued access token.
func (t *testContext) iAmLoggedInAs(email string) error {
	t.startServer()

	password, ok := t.reviewerPasswords[email]
	if !ok {
		if err := t.aReviewerExistsWithEmailAndPassword(email, defaultReviewerPassword); err != nil {
			return err
		}
		password = defaultReviewerPassword
	}

	payload := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", []byte(payload)); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %v", t.response.status, t.response.body)
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("login response is not a JSON object: %v", t.response.body)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		return fmt.Errorf("login response has no access token: %v", body)
	}

	t.accessToken = token
	t.response = nil
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// seededLine is one parsed row of a document line table.
type seededLine struct {
	itemKey     string
	description string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
}

func parseLineRows(table *godog.Table) ([]seededLine, error) {
	if len(table.Rows) < 2 {
		return nil, errors.New("expected a header row and at least one line row")
	}

	header := table.Rows[0]
	lines := make([]seededLine, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		line := seededLine{quantity: decimal.Zero, unitPrice: decimal.Zero}
		for i, cell := range row.Cells {
			switch header.Cells[i].Value {
			case "item_key":
				line.itemKey = cell.Value
			case "description":
				line.description = cell.Value
			case "quantity":
				quantity, err := decimal.NewFromString(cell.Value)
				if err != nil {
					return nil, fmt.Errorf("invalid quantity %q: %w", cell.Value, err)
				}
				line.quantity = quantity
			case "unit_price":
				unitPrice, err := decimal.NewFromString(cell.Value)
				if err != nil {
					return nil, fmt.Errorf("invalid unit price %q: %w", cell.Value, err)
				}
				line.unitPrice = unitPrice
			default:
				return nil, fmt.Errorf("unknown line column %q", header.Cells[i].Value)
			}
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// supplierEmail derives a deterministic supplier address from the name so
// notification assertions can predict the recipient.
func supplierEmail(supplierName string) string {
	slug := strings.ToLower(strings.ReplaceAll(supplierName, " ", ""))
	return fmt.Sprintf("orders@%s.example", slug)
}

func (t *testContext) aPurchaseOrderFromSupplierWithLines(name, supplier string, table *godog.Table) error {
	lines, err := parseLineRows(table)
	if err != nil {
		return err
	}

	poID := uuid.New()
	t.purchaseOrders[name] = poID

	now := time.Now().UTC()
	total := decimal.Zero
	poLines := make([]model.PurchaseOrderLineModel, len(lines))
	for i, line := range lines {
		total = total.Add(line.quantity.Mul(line.unitPrice))
		poLines[i] = model.PurchaseOrderLineModel{
			ID:              uuid.New(),
			PurchaseOrderID: poID,
			Position:        i,
			ItemKey:         line.itemKey,
			Description:     line.description,
			Quantity:        line.quantity,
			UnitPrice:       line.unitPrice,
		}
	}

	po := &model.PurchaseOrderModel{
		ID:                   poID,
		SupplierID:           uuid.New(),
		SupplierEmail:        supplierEmail(supplier),
		SupplierName:         supplier,
		DateOrdered:          now.AddDate(0, 0, -7),
		DateExpectedDelivery: now.AddDate(0, 0, -1),
		PaymentTerms:         "net_30",
		TotalExpected:        total,
		CreatedAt:            now,
		UpdatedAt:            now,
		Lines:                poLines,
	}

	return t.db.DbConn.Create(po).Error
}

func (t *testContext) aReceivingOrderForInConditionWithLines(poName, condition string, table *godog.Table) error {
	poID, ok := t.purchaseOrders[poName]
	if !ok {
		return fmt.Errorf("unknown purchase order %q", poName)
	}

	lines, err := parseLineRows(table)
	if err != nil {
		return err
	}

	roID := uuid.New()
	now := time.Now().UTC()
	roLines := make([]model.ReceivingOrderLineModel, len(lines))
	for i, line := range lines {
		roLines[i] = model.ReceivingOrderLineModel{
			ID:               uuid.New(),
			ReceivingOrderID: roID,
			Position:         i,
			ItemKey:          line.itemKey,
			Description:      line.description,
			Quantity:         line.quantity,
			UnitPrice:        line.unitPrice,
		}
	}

	ro := &model.ReceivingOrderModel{
		ID:              roID,
		PurchaseOrderID: poID,
		DateReceived:    now.AddDate(0, 0, -1),
		ReceivedBy:      "Kitchen Staff",
		Condition:       condition,
		CreatedAt:       now,
		UpdatedAt:       now,
		Lines:           roLines,
	}

	return t.db.DbConn.Create(ro).Error
}

func (t *testContext) anInvoiceForWithLines(poName string, table *godog.Table) error {
	poID, ok := t.purchaseOrders[poName]
	if !ok {
		return fmt.Errorf("unknown purchase order %q", poName)
	}

	lines, err := parseLineRows(table)
	if err != nil {
		return err
	}

	invoiceID := uuid.New()
	now := time.Now().UTC()
	total := decimal.Zero
	invoiceLines := make([]model.InvoiceLineModel, len(lines))
	for i, line := range lines {
		total = total.Add(line.quantity.Mul(line.unitPrice))
		invoiceLines[i] = model.InvoiceLineModel{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Position:    i,
			ItemKey:     line.itemKey,
			Description: line.description,
			Quantity:    line.quantity,
			UnitPrice:   line.unitPrice,
		}
	}

	invoice := &model.InvoiceModel{
		ID:              invoiceID,
		PurchaseOrderID: poID,
		DateIssued:      now,
		DateDue:         now.AddDate(0, 0, 30),
		SupplierRef:     "INV-" + invoiceID.String()[:8],
		Total:           total,
		CreatedAt:       now,
		UpdatedAt:       now,
		Lines:           invoiceLines,
	}

	return t.db.DbConn.Create(invoice).Error
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

// replacePlaceholders substitutes {{po:NAME}} references with the seeded
// purchase order IDs.
func (t *testContext) replacePlaceholders(content string) string {
	for name, id := range t.purchaseOrders {
		content = strings.ReplaceAll(content, "{{po:"+name+"}}", id.String())
	}
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody
	}

	return nil
}

func (t *testContext) theNotificationWorkerProcessesTheQueue() error {
	if testWorker == nil {
		return errors.New("server has not been started")
	}
	testWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) anEmailShouldHaveBeenSentTo(recipient string) error {
	for _, sent := range testSender.SentEmails {
		if sent.To == recipient {
			return nil
		}
	}
	return fmt.Errorf("no email sent to %s (%d emails sent)", recipient, len(testSender.SentEmails))
}

func (t *testContext) noEmailShouldHaveBeenSent() error {
	if len(testSender.SentEmails) != 0 {
		return fmt.Errorf("expected no emails, got %d", len(testSender.SentEmails))
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	result := t.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
	if result.Error != nil {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

// getFieldValue resolves a dot-separated path into a decoded JSON value.
// Numeric path segments index into arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
