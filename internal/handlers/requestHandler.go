package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/HackRxAPI/internal/adapter"
	"github.com/akolanti/HackRxAPI/internal/api"
	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/rag/fetch"
	"github.com/akolanti/HackRxAPI/internal/rag/ingest"
)

// HealthHandler godoc
// @Summary      Liveness check
// @Description  Reports service health. No authentication required.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, adapter.ToHealthResponse())
}

// RunHandler godoc
// @Summary      Answer questions about a document URL
// @Description  Downloads the document, indexes it and answers every question in order.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest  true  "Document URL and questions"
// @Success      200      {object}  api.QueryResponse
// @Failure      400      {object}  api.ErrorResponse  "Bad request body or unreachable document"
// @Failure      401      {object}  api.ErrorResponse  "Missing or invalid bearer token"
// @Failure      500      {object}  api.ErrorResponse  "Pipeline failure"
// @Security     BearerAuth
// @Router       /hackrx/run [post]
func RunHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", request.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the run handler reader :", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad run request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if requestData.Documents == "" || !validQuestions(requestData.Questions) {
		WriteErrorResponse(w, http.StatusBadRequest, "documents url and at least one question are required")
		return
	}

	downloadCtx, cancel := downloadContext(request)
	defer cancel()

	localPath, err := fetch.Download(downloadCtx, requestData.Documents)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Error downloading document: %v", err))
		return
	}
	defer removeTempFile(localPath)

	doc := commonModels.Document{
		Name:      filepath.Base(localPath),
		SourceURL: requestData.Documents,
		LocalPath: localPath,
	}
	answerAndRespond(w, request, doc, requestData.Questions)
}

// UploadHandler godoc
// @Summary      Answer questions about an uploaded file
// @Description  Accepts a multipart upload (PDF/DOCX/DOC/EML/MSG, max 50MB) plus a JSON-encoded question array.
// @Tags         Query
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true  "The document to query"
// @Param        questions  formData  string  true  "JSON-encoded array of questions"
// @Success      200  {object}  api.QueryResponse
// @Failure      400  {object}  api.ErrorResponse  "Missing fields, bad questions JSON or unsupported file type"
// @Failure      401  {object}  api.ErrorResponse  "Missing or invalid bearer token"
// @Failure      413  {object}  api.ErrorResponse  "File exceeds the 50MB limit"
// @Failure      500  {object}  api.ErrorResponse  "Pipeline failure"
// @Security     BearerAuth
// @Router       /hackrx/upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %dMB limit", config.MaxUploadSize>>20))
			return
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Bad multipart request")
		return
	}

	var questions []string
	if err := json.Unmarshal([]byte(r.FormValue("questions")), &questions); err != nil || !validQuestions(questions) {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON format for questions")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if ingest.DocTypeForPath(fileMetadata.Filename) == commonModels.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s", filepath.Ext(fileMetadata.Filename)))
		return
	}

	localPath, err := saveUpload(fileReader, fileMetadata.Filename)
	if err != nil {
		logRH.Error("Couldn't store upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	defer removeTempFile(localPath)

	doc := commonModels.Document{
		Name:      fileMetadata.Filename,
		LocalPath: localPath,
	}
	answerAndRespond(w, r, doc, questions)
}

// answerAndRespond is the shared tail of both query endpoints: hash,
// validate type, ingest, fan out questions, reply.
func answerAndRespond(w http.ResponseWriter, r *http.Request, doc commonModels.Document, questions []string) {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	log := logRH.With("traceId", traceId)

	doc.ContentType = ingest.DocTypeForPath(doc.LocalPath)
	if doc.ContentType == commonModels.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, "Unsupported document type")
		return
	}

	key, size, err := fetch.HashFile(doc.LocalPath)
	if err != nil {
		log.Error("Couldn't hash document", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	doc.Id = newDocId()
	doc.Key = key
	doc.SizeBytes = size
	doc.LastIngestTimestamp = time.Now()

	record, err := handlerInstance.rag.IngestDocument(r.Context(), doc)
	if err != nil {
		log.Error("Ingestion failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Error processing document")
		return
	}

	tasks, err := dispatchQuestions(r.Context(), doc, questions, traceId)
	if err != nil {
		log.Error("Question dispatch failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Error answering questions")
		return
	}
	for _, t := range tasks {
		if t.Error.Code != 0 {
			WriteErrorResponse(w, http.StatusInternalServerError, "Error processing with AI")
			return
		}
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(tasks, doc, record, handlerInstance.rag.LLMName()))
}

func removeTempFile(path string) {
	if err := os.Remove(path); err != nil {
		logRH.Error("Error removing temp file", "path", path, "error", err)
	}
}
