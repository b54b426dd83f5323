package user

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, build func(w *multipart.Writer)) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	build(writer)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/form/submit", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req
	return ctx
}

func writeFilePart(t *testing.T, w *multipart.Writer, field, filename, contentType string, data []byte) {
	t.Helper()
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

func TestDecodeMultipartPreservesFieldOrder(t *testing.T) {
	ctx := multipartContext(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("formId", "F1"))
		require.NoError(t, w.WriteField("Q3", "c"))
		require.NoError(t, w.WriteField("Q1", "a"))
		require.NoError(t, w.WriteField("Q2", "b"))
	})

	form, err := decodeMultipart(ctx)
	require.NoError(t, err)
	require.Len(t, form.Fields, 4)
	assert.Equal(t, "formId", form.Fields[0].Key)
	assert.Equal(t, "Q3", form.Fields[1].Key)
	assert.Equal(t, "Q1", form.Fields[2].Key)
	assert.Equal(t, "Q2", form.Fields[3].Key)
}

func TestDecodeMultipartSeparatesFiles(t *testing.T) {
	ctx := multipartContext(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("Upload a photo of the shop", "done"))
		writeFilePart(t, w, "media[Upload a photo of the shop]", "shop.jpg", "image/jpeg", []byte("jpeg"))
		writeFilePart(t, w, "media[Upload a video of the shop]", "shop.mp4", "video/mp4", []byte("mp4"))
	})

	form, err := decodeMultipart(ctx)
	require.NoError(t, err)
	require.Len(t, form.Fields, 1)
	require.Len(t, form.Files, 2)
	assert.Equal(t, "media[Upload a photo of the shop]", form.Files[0].FieldName)
	assert.Equal(t, "image/jpeg", form.Files[0].ContentType)
	assert.Equal(t, []byte("jpeg"), form.Files[0].Data)
	assert.Equal(t, "shop.mp4", form.Files[1].Filename)
}

func TestDecodeMultipartRejectsDisallowedType(t *testing.T) {
	ctx := multipartContext(t, func(w *multipart.Writer) {
		writeFilePart(t, w, "media[Doc]", "doc.pdf", "application/pdf", []byte("%PDF"))
	})

	_, err := decodeMultipart(ctx)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "Invalid file type. Only JPG, PNG, and MP4 are allowed.", apperr.MessageOf(err))
}

func TestDecodeMultipartParsesContentTypeParameters(t *testing.T) {
	ctx := multipartContext(t, func(w *multipart.Writer) {
		writeFilePart(t, w, "media[Photo]", "p.jpg", "image/jpeg; charset=binary", []byte("jpeg"))
	})

	form, err := decodeMultipart(ctx)
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, "image/jpeg", form.Files[0].ContentType)
}

func TestDecodeMultipartRejectsNonMultipart(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/form/submit", bytes.NewBufferString(`{"formId":"F1"}`))
	req.Header.Set("Content-Type", "application/json")

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req

	_, err := decodeMultipart(ctx)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
