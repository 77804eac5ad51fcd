// seed_measurements.go reads a CSV export of test batch metrics and posts each row
// to the evaluation API.
//
// Usage:
//
//	go run scripts/seed_measurements.go -csv batches.csv -api http://localhost:8700
//
// The header row names the columns of military_effectiveness_evaluation. Empty
// cells are left unset.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var integerColumns = map[string]bool{
	"scenario_id":                     true,
	"total_network_crashes":           true,
	"avg_response_time_ms":            true,
	"avg_handling_duration_ms":        true,
	"avg_network_setup_duration_ms":   true,
	"total_communications":            true,
	"total_lifecycles":                true,
	"total_communication_duration_ms": true,
	"total_interruption_time_ms":      true,
}

func main() {
	csvPath := flag.String("csv", "batches.csv", "path to the CSV export")
	apiURL := flag.String("api", "http://localhost:8700", "evaluation API base URL")
	dryRun := flag.Bool("dry-run", false, "print rows without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}
	log.Printf("parsed %d rows", len(rows))

	if *dryRun {
		for i, row := range rows {
			out, _ := json.Marshal(row)
			fmt.Printf("[%d] %s\n", i+1, out)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, row := range rows {
		body, _ := json.Marshal(row)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/evaluations", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %v: %v", row["test_id"], err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %v: %v", row["test_id"], err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %v: status %d", row["test_id"], resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

func readRows(r io.Reader) ([]map[string]interface{}, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]interface{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i >= len(rec) {
				break
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			switch {
			case col == "test_id":
				row[col] = cell
			case integerColumns[col]:
				n, err := strconv.ParseInt(cell, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d column %s: %w", line, col, err)
				}
				row[col] = n
			default:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d column %s: %w", line, col, err)
				}
				row[col] = v
			}
		}
		if row["test_id"] == nil {
			log.Printf("line %d: no test_id, skipped", line)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
