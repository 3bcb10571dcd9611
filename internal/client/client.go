// Package client is the thin HTTP tier used by the terminal frontend to
// talk to the backend service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"qatbot/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Upload sends server-side file paths for ingestion.
func (c *Client) Upload(paths []string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.postJSON("/upload/", map[string][]string{"file_paths": paths}, http.StatusCreated, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// UploadFiles reads local files and sends them as a multipart request, one
// pdf_doc_<i> field per file, so the backend does not need access to the
// client's filesystem.
func (c *Client) UploadFiles(paths []string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		fw, err := mw.CreateFormFile(fmt.Sprintf("pdf_doc_%d", i), filepath.Base(p))
		if err != nil {
			return "", err
		}
		if _, err := fw.Write(data); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/upload/", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Query asks a question and returns the full response bundle.
func (c *Client) Query(question string) (*models.QueryResponse, error) {
	var out models.QueryResponse
	err := c.postJSON("/query/", map[string]string{"question": question}, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Evaluate submits the user's answer for a previously issued test question.
func (c *Client) Evaluate(answer, testQuestionID string) (*models.EvaluationResult, error) {
	payload := map[string]string{
		"answer":           answer,
		"test_question_id": testQuestionID,
	}
	var out models.EvaluationResult
	if err := c.postJSON("/evaluate/", payload, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(path string, payload interface{}, wantStatus int, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, wantStatus, out)
}

func (c *Client) do(req *http.Request, wantStatus int, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var failure struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &failure); err == nil && failure.Error != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, failure.Error)
		}
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
