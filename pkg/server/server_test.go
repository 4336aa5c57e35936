package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/notify"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

type recordingTransport struct {
	sent []notify.Message
	err  error
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Send(_ context.Context, msg notify.Message) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *recordingTransport) {
	t.Helper()
	store, err := artifact.NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	tr := &recordingTransport{}
	runner := pipeline.NewRunner(nil, nil, nil)
	runner.Store = store
	runner.Notifier = notify.New(tr, "shop@test", []string{"print@test"}, nil)
	cfg.Runner = runner

	ts := httptest.NewServer(New(cfg))
	t.Cleanup(ts.Close)
	return ts, tr
}

func cropPNG(t *testing.T, i int) []byte {
	t.Helper()
	data, err := sheet.EncodePNG(imaging.New(16, 16, color.NRGBA{uint8(50 * i), 90, 160, 255}))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

type formOrder struct {
	total      int
	quantities []string
	photos     int
	dataURLs   bool
}

func (f formOrder) body(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField(fieldOrderNumber, "1042")
	mw.WriteField(fieldCustomerName, "Ana Pérez")
	mw.WriteField(fieldPhone, "099 123 456")
	mw.WriteField(fieldTotalMagnets, strconv.Itoa(f.total))
	for i := 0; i < f.photos; i++ {
		data := cropPNG(t, i)
		if f.dataURLs {
			mw.WriteField(fieldPhoto, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
			continue
		}
		fw, err := mw.CreateFormFile(fieldPhoto, fmt.Sprintf("photo-%d.png", i+1))
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	for _, q := range f.quantities {
		mw.WriteField(fieldQuantity, q)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, url string, f formOrder) *http.Response {
	t.Helper()
	body, ct := f.body(t)
	resp, err := http.Post(url, ct, body)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, body)
	}
}

func TestGeometry(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v1/geometry?count=14")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got struct {
		Magnet int `json:"magnet"`
		Rows   int `json:"rows"`
		Count  int `json:"count"`
		Pages  int `json:"pages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Magnet != sheet.A4.Magnet || got.Rows != 4 || got.Count != 14 || got.Pages != 2 {
		t.Errorf("geometry = %+v", got)
	}

	bad, err := http.Get(ts.URL + "/v1/geometry?count=-1")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("negative count status = %d", bad.StatusCode)
	}
}

func TestSheetPreview(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/sheets", formOrder{total: 5, photos: 2, quantities: []string{"3", "2"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get("X-Sheet-Pages") != "1" || resp.Header.Get("X-Sheet-Skipped") != "0" {
		t.Errorf("sheet headers = %v", resp.Header)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != sheet.A4.PageWidth || b.Dy() != sheet.A4.PageHeight {
		t.Errorf("image = %v", b)
	}
}

func TestSheetPreviewDataURLs(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/v1/sheets", formOrder{total: 2, photos: 2, quantities: []string{"1", "1"}, dataURLs: true})
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Sheet-Skipped") != "0" {
		t.Errorf("status = %d, skipped = %s", resp.StatusCode, resp.Header.Get("X-Sheet-Skipped"))
	}
}

func TestSheetPage(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	f := formOrder{total: 14, photos: 2, quantities: []string{"7", "7"}}

	resp := post(t, ts.URL+"/v1/sheets?page=2", f)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page 2 status = %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != sheet.A4.PageHeight {
		t.Errorf("page height = %d, want a single page", img.Bounds().Dy())
	}

	stacked := post(t, ts.URL+"/v1/sheets", f)
	img, err = png.Decode(stacked.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != 2*sheet.A4.PageHeight {
		t.Errorf("stacked height = %d, want two pages", img.Bounds().Dy())
	}

	if resp := post(t, ts.URL+"/v1/sheets?page=3", f); resp.StatusCode != http.StatusNotFound {
		t.Errorf("page 3 status = %d, want 404", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/v1/sheets?page=zero", f); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad page status = %d, want 422", resp.StatusCode)
	}
}

func TestOrderCreated(t *testing.T) {
	ts, tr := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/orders", formOrder{total: 5, photos: 2, quantities: []string{"3", "2"}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
	}
	var res struct {
		Files []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"files"`
		Payload struct {
			OrderNumber string `json:"orderNumber"`
			FileCount   int    `json:"fileCount"`
		} `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.Files[0].URL == "" || res.Payload.OrderNumber != "1042" || res.Payload.FileCount != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(tr.sent) != 1 {
		t.Errorf("sent %d notifications, want 1", len(tr.sent))
	}

	file, err := http.Get(ts.URL + "/v1/files/" + res.Files[0].Name)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Body.Close()
	if file.StatusCode != http.StatusOK {
		t.Fatalf("file status = %d", file.StatusCode)
	}
	if _, err := png.Decode(file.Body); err != nil {
		t.Errorf("stored file is not a PNG: %v", err)
	}
}

func TestOrderAttach(t *testing.T) {
	ts, tr := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/v1/orders?attach=true", formOrder{total: 1, photos: 1, quantities: []string{"1"}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(tr.sent) != 1 || len(tr.sent[0].Attachments) != 1 {
		t.Errorf("sent = %+v", tr.sent)
	}
}

func TestOrderNotifyFailureListsFiles(t *testing.T) {
	ts, tr := newTestServer(t, Config{})
	tr.err = fmt.Errorf("smtp down")

	resp := post(t, ts.URL+"/v1/orders", formOrder{total: 3, photos: 1, quantities: []string{"3"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	e := decodeError(t, resp)
	if e.Code != errors.ErrCodeNotifyFailed {
		t.Errorf("code = %s, want %s", e.Code, errors.ErrCodeNotifyFailed)
	}
	if len(e.Files) != 1 || e.Files[0].URL == "" || e.Files[0].Name == "" {
		t.Fatalf("files = %+v, want the uploaded sheet", e.Files)
	}

	file, err := http.Get(ts.URL + "/v1/files/" + e.Files[0].Name)
	if err != nil {
		t.Fatal(err)
	}
	file.Body.Close()
	if file.StatusCode != http.StatusOK {
		t.Errorf("uploaded file status = %d", file.StatusCode)
	}
}

func TestOrderRejects(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		form     formOrder
		status   int
		wantCode errors.Code
	}{
		{"quantity mismatch", Config{}, formOrder{total: 6, photos: 2, quantities: []string{"3", "2"}}, http.StatusUnprocessableEntity, errors.ErrCodeQuantityMismatch},
		{"missing quantity", Config{}, formOrder{total: 3, photos: 2, quantities: []string{"3"}}, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput},
		{"bad quantity", Config{}, formOrder{total: 3, photos: 1, quantities: []string{"three"}}, http.StatusUnprocessableEntity, errors.ErrCodeInvalidQuantity},
		{"too many photos", Config{}, formOrder{total: 1, photos: 2, quantities: []string{"1", "0"}}, http.StatusUnprocessableEntity, errors.ErrCodeTooManyPhotos},
		{"no photos", Config{}, formOrder{total: 1}, http.StatusUnprocessableEntity, errors.ErrCodeInvalidOrder},
		{"photo too large", Config{MaxPhotoBytes: 8}, formOrder{total: 1, photos: 1, quantities: []string{"1"}}, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, tr := newTestServer(t, tt.cfg)
			resp := post(t, ts.URL+"/v1/orders", tt.form)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.wantCode || e.Error == "" {
				t.Errorf("error body = %+v, want code %s", e, tt.wantCode)
			}
			if len(tr.sent) != 0 {
				t.Error("rejected order was notified")
			}
		})
	}
}

func TestFileNotFound(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/v1/files/missing.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeQuantityMismatch, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeUploadFailed, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeSurfaceUnavailable, "x"), http.StatusInternalServerError},
		{&tooLargeError{msg: "x"}, http.StatusRequestEntityTooLarge},
		{context.Canceled, http.StatusServiceUnavailable},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
