package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "owner":
		handlePerson("owners", args)
	case "tenant":
		handlePerson("tenants", args)
	case "property":
		handleProperty(args)
	case "lease":
		handleLease(args)
	case "payment":
		handlePayment(args)
	case "report":
		handleReport(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Auth commands

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rentledger auth <signup|login|logout|who>")
		return
	}

	switch args[0] {
	case "signup":
		signup(args[1:])
	case "login":
		login(args[1:])
	case "logout":
		os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
	case "who":
		token := loadToken()
		if token == "" {
			fmt.Println("Not logged in")
			return
		}
		fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func signup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "role: admin, owner or tenant")
	refID := fs.Int64("ref", 0, "linked owner/tenant record id (optional)")
	fs.Parse(args)

	if *username == "" || *password == "" || *role == "" {
		fmt.Println("Error: username, password, and role are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]any{
		"username": *username,
		"password": *password,
		"role":     *role,
	}
	if *refID != 0 {
		payload["ref_id"] = *refID
	}

	status, body := request(http.MethodPost, "/auth/signup", payload)
	if status == http.StatusCreated {
		fmt.Printf("✓ Account created: %s (%s)\n", *username, *role)
	} else {
		fmt.Printf("✗ Signup failed: %s\n", errorMessage(body))
	}
}

func login(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	status, body := request(http.MethodPost, "/auth/login", map[string]any{
		"username": *username,
		"password": *password,
	})
	if status != http.StatusOK {
		fmt.Printf("✗ Login failed: %s\n", errorMessage(body))
		return
	}

	var result struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Token == "" {
		fmt.Println("✗ Login failed: malformed response")
		return
	}
	saveToken(result.Token)
	fmt.Printf("✓ Logged in as %s (%s)\n", *username, result.Role)
}

// Owner and tenant commands share a shape: id, name, phone.

func handlePerson(resource string, args []string) {
	if len(args) < 1 {
		fmt.Printf("Usage: rentledger %s <list|get|create|update|delete>\n", singular(resource))
		return
	}

	switch args[0] {
	case "list":
		listRows("/"+resource, []string{"id", "name", "phone"})
	case "get":
		getByID("/"+resource, args[1:])
	case "create", "update":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		id := fs.Int64("id", 0, "record id (update only)")
		name := fs.String("name", "", "full name")
		phone := fs.String("phone", "", "phone number")
		fs.Parse(args[1:])
		payload := map[string]any{"name": *name, "phone": *phone}
		mutate("/"+resource, args[0], *id, payload)
	case "delete":
		deleteByID("/"+resource, args[1:])
	default:
		fmt.Printf("unknown %s command: %s\n", singular(resource), args[0])
	}
}

func handleProperty(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rentledger property <list|get|create|update|delete|search>")
		return
	}

	switch args[0] {
	case "list":
		listRows("/properties", []string{"id", "name", "location", "rent", "owner_id"})
	case "get":
		getByID("/properties", args[1:])
	case "create", "update":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		id := fs.Int64("id", 0, "record id (update only)")
		name := fs.String("name", "", "property name")
		location := fs.String("location", "", "location")
		rent := fs.Float64("rent", 0, "monthly rent")
		owner := fs.Int64("owner", 0, "owner id (optional)")
		fs.Parse(args[1:])
		payload := map[string]any{"name": *name, "location": *location, "rent": *rent}
		if *owner != 0 {
			payload["owner_id"] = *owner
		}
		mutate("/properties", args[0], *id, payload)
	case "delete":
		deleteByID("/properties", args[1:])
	case "search":
		searchProperties(args[1:])
	default:
		fmt.Printf("unknown property command: %s\n", args[0])
	}
}

func searchProperties(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	name := fs.String("name", "", "name substring")
	location := fs.String("location", "", "location substring")
	minRent := fs.String("min-rent", "", "minimum rent")
	maxRent := fs.String("max-rent", "", "maximum rent")
	owner := fs.String("owner", "", "owner id")
	fs.Parse(args)

	query := url.Values{}
	if *name != "" {
		query.Set("name", *name)
	}
	if *location != "" {
		query.Set("location", *location)
	}
	if *minRent != "" {
		query.Set("min_rent", *minRent)
	}
	if *maxRent != "" {
		query.Set("max_rent", *maxRent)
	}
	if *owner != "" {
		query.Set("owner_id", *owner)
	}

	path := "/properties/search"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	listRows(path, []string{"id", "name", "location", "rent", "owner_id"})
}

func handleLease(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rentledger lease <list|get|create|update|delete>")
		return
	}

	switch args[0] {
	case "list":
		listRows("/leases", []string{"id", "property_id", "tenant_id", "start_date", "end_date"})
	case "get":
		getByID("/leases", args[1:])
	case "create", "update":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		id := fs.Int64("id", 0, "record id (update only)")
		property := fs.Int64("property", 0, "property id")
		tenant := fs.Int64("tenant", 0, "tenant id")
		start := fs.String("start", "", "start date YYYY-MM-DD")
		end := fs.String("end", "", "end date YYYY-MM-DD")
		fs.Parse(args[1:])
		payload := map[string]any{
			"property_id": *property,
			"tenant_id":   *tenant,
			"start_date":  *start,
			"end_date":    *end,
		}
		mutate("/leases", args[0], *id, payload)
	case "delete":
		deleteByID("/leases", args[1:])
	default:
		fmt.Printf("unknown lease command: %s\n", args[0])
	}
}

func handlePayment(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rentledger payment <list|get|create|update|delete>")
		return
	}

	switch args[0] {
	case "list":
		listRows("/payments", []string{"id", "lease_id", "amount", "date"})
	case "get":
		getByID("/payments", args[1:])
	case "create", "update":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		id := fs.Int64("id", 0, "record id (update only)")
		lease := fs.Int64("lease", 0, "lease id")
		amount := fs.Float64("amount", 0, "amount paid")
		date := fs.String("date", "", "payment date YYYY-MM-DD")
		fs.Parse(args[1:])
		payload := map[string]any{"lease_id": *lease, "amount": *amount, "date": *date}
		mutate("/payments", args[0], *id, payload)
	case "delete":
		deleteByID("/payments", args[1:])
	default:
		fmt.Printf("unknown payment command: %s\n", args[0])
	}
}

func handleReport(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rentledger report <monthly|unpaid> -month YYYY-MM")
		return
	}

	kind := args[0]
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	month := fs.String("month", "", "report month YYYY-MM")
	fs.Parse(args[1:])

	if *month == "" {
		fmt.Println("Error: month is required")
		fs.PrintDefaults()
		return
	}

	switch kind {
	case "monthly":
		status, body := request(http.MethodGet, "/reports/monthly?month="+url.QueryEscape(*month), nil)
		if status != http.StatusOK {
			fmt.Printf("✗ Report failed: %s\n", errorMessage(body))
			return
		}
		var report struct {
			Payments    []map[string]any `json:"payments"`
			TotalAmount float64          `json:"total_amount"`
			Count       int              `json:"count"`
		}
		json.Unmarshal(body, &report)
		printTable(report.Payments, []string{"payment_id", "lease_id", "property_id", "tenant_id", "amount", "date"})
		fmt.Printf("\n%d payments, %.2f total\n", report.Count, report.TotalAmount)
	case "unpaid":
		status, body := request(http.MethodGet, "/reports/unpaid?month="+url.QueryEscape(*month), nil)
		if status != http.StatusOK {
			fmt.Printf("✗ Report failed: %s\n", errorMessage(body))
			return
		}
		var report struct {
			Leases []map[string]any `json:"leases"`
			Count  int              `json:"count"`
		}
		json.Unmarshal(body, &report)
		printTable(report.Leases, []string{"lease_id", "property_id", "tenant_id", "start_date", "end_date", "notes"})
		fmt.Printf("\n%d leases without a payment\n", report.Count)
	default:
		fmt.Printf("unknown report: %s\n", kind)
	}
}

// Shared plumbing

func listRows(path string, columns []string) {
	status, body := request(http.MethodGet, path, nil)
	if status != http.StatusOK {
		fmt.Printf("✗ Request failed: %s\n", errorMessage(body))
		return
	}
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		fmt.Printf("✗ Malformed response: %v\n", err)
		return
	}
	printTable(rows, columns)
}

func getByID(path string, args []string) {
	id, ok := parseIDArg(args)
	if !ok {
		return
	}
	status, body := request(http.MethodGet, fmt.Sprintf("%s/%d", path, id), nil)
	if status != http.StatusOK {
		fmt.Printf("✗ Request failed: %s\n", errorMessage(body))
		return
	}
	var pretty bytes.Buffer
	json.Indent(&pretty, body, "", "  ")
	fmt.Println(pretty.String())
}

func mutate(path, action string, id int64, payload map[string]any) {
	var status int
	var body []byte
	if action == "update" {
		if id == 0 {
			fmt.Println("Error: -id is required for update")
			return
		}
		status, body = request(http.MethodPut, fmt.Sprintf("%s/%d", path, id), payload)
	} else {
		status, body = request(http.MethodPost, path, payload)
	}

	if status == http.StatusOK || status == http.StatusCreated {
		var pretty bytes.Buffer
		json.Indent(&pretty, body, "", "  ")
		fmt.Printf("✓ %s\n%s\n", action, pretty.String())
	} else {
		fmt.Printf("✗ %s failed: %s\n", action, errorMessage(body))
	}
}

func deleteByID(path string, args []string) {
	id, ok := parseIDArg(args)
	if !ok {
		return
	}
	status, body := request(http.MethodDelete, fmt.Sprintf("%s/%d", path, id), nil)
	if status == http.StatusOK {
		fmt.Println("✓ deleted")
	} else {
		fmt.Printf("✗ delete failed: %s\n", errorMessage(body))
	}
}

func parseIDArg(args []string) (int64, bool) {
	if len(args) < 1 {
		fmt.Println("Error: record id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid id %q\n", args[0])
		return 0, false
	}
	return id, true
}

func request(method, path string, payload any) (int, []byte) {
	var reqBody io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, getAPIURL()+path, reqBody)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func printTable(rows []map[string]any, columns []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := ""
	for _, column := range columns {
		header += column + "\t"
	}
	fmt.Fprintln(w, header)
	for _, row := range rows {
		line := ""
		for _, column := range columns {
			line += fmt.Sprintf("%v\t", row[column])
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return string(body)
}

func singular(resource string) string {
	switch resource {
	case "owners":
		return "owner"
	case "tenants":
		return "tenant"
	}
	return resource
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("RENTLEDGER_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.rentledger/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.rentledger", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func printUsage() {
	fmt.Print(`RentLedger CLI

Usage:
  rentledger <command> [options]

Commands:
  auth      Account operations (signup, login, logout, who)
  owner     Owner records (list, get, create, update, delete)
  tenant    Tenant records (list, get, create, update, delete)
  property  Property records (list, get, create, update, delete, search)
  lease     Lease records (list, get, create, update, delete)
  payment   Payment records (list, get, create, update, delete)
  report    Monthly reports (monthly, unpaid) - admin/owner only
  help      Show this help message

Environment Variables:
  RENTLEDGER_API    API endpoint (default: http://localhost:8080/api)

Examples:
  rentledger auth signup -username amira -password secret123 -role admin
  rentledger auth login -username amira -password secret123
  rentledger property create -name "Elm Cottage" -location Springfield -rent 1200 -owner 1
  rentledger report unpaid -month 2024-03
`)
}
