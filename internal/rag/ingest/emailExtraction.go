package ingest

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strings"
	"unicode"
)

// extractEML parses an RFC 5322 email: routing headers become the first
// lines, then every decoded text part of the body.
func extractEML(path string) ([]rawPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open eml: %w", err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(bufio.NewReader(f))
	if err != nil {
		logger.Error("Error parsing eml", "error", err)
		return nil, fmt.Errorf("failed to parse eml: %w", err)
	}

	var sb strings.Builder
	for _, h := range []string{"Subject", "From", "To", "Date"} {
		if v := msg.Header.Get(h); v != "" {
			sb.WriteString(h + ": " + v + "\n")
		}
	}
	sb.WriteString("\n")

	body, err := extractMailBody(msg)
	if err != nil {
		logger.Error("Error extracting eml body", "error", err)
		return nil, err
	}
	sb.WriteString(body)

	return []rawPage{{Number: 1, Content: sb.String()}}, nil
}

func extractMailBody(msg *mail.Message) (string, error) {
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		//plenty of plain emails carry no content type at all
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipart(msg.Body, params["boundary"])
	}
	return decodeTextPart(msg.Body, mediaType, msg.Header.Get("Content-Transfer-Encoding"))
}

func extractMultipart(body io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", errors.New("multipart email without boundary")
	}

	var sb strings.Builder
	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sb.String(), err
		}

		partType, params, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if strings.HasPrefix(partType, "multipart/") {
			nested, err := extractMultipart(part, params["boundary"])
			if err == nil {
				sb.WriteString(nested)
			}
			continue
		}
		if !strings.HasPrefix(partType, "text/") {
			continue //attachments are out of scope for email qa
		}

		text, err := decodeTextPart(part, partType, part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			logger.Error("Skipping undecodable email part", "type", partType, "error", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func decodeTextPart(r io.Reader, mediaType string, transferEncoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	text := string(raw)
	if strings.HasPrefix(mediaType, "text/html") {
		text = stripHTMLTags(text)
	}
	return text, nil
}

func stripHTMLTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// extractMSG is best effort. Outlook .msg is an OLE compound file; rather
// than pull in a full OLE parser we sweep the file for legible text runs,
// which reliably surfaces the subject and body streams.
func extractMSG(path string) ([]rawPage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open msg: %w", err)
	}

	text := sweepPrintable(raw)
	if len(strings.TrimSpace(text)) == 0 {
		return nil, errors.New("no legible text found in msg file")
	}

	return []rawPage{{Number: 1, Content: text}}, nil
}

const minRunLength = 6

func sweepPrintable(raw []byte) string {
	var sb strings.Builder

	flush := func(run []rune) {
		if len(run) >= minRunLength {
			sb.WriteString(string(run))
			sb.WriteString("\n")
		}
	}

	//ascii runs
	var run []rune
	for _, b := range raw {
		r := rune(b)
		if unicode.IsPrint(r) && r < unicode.MaxASCII {
			run = append(run, r)
			continue
		}
		flush(run)
		run = nil
	}
	flush(run)

	//utf-16le runs, the encoding of msg string properties
	run = nil
	for i := 0; i+1 < len(raw); i += 2 {
		r := rune(raw[i])
		if raw[i+1] == 0x00 && unicode.IsPrint(r) && r < unicode.MaxASCII {
			run = append(run, r)
			continue
		}
		flush(run)
		run = nil
	}
	flush(run)

	return sb.String()
}
