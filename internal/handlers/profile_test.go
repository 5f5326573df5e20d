package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
)

const pixel = "data:image/png;base64,iVBORw0KGgo="

func TestGetPicture(t *testing.T) {
	svc := &handlers.MockProfileService{}
	handler := handlers.NewProfileHandler(svc, discardLogger())

	w := httptest.NewRecorder()
	handler.GetPicture(w, httptest.NewRequest("GET", "/profile/picture", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"image_data":null}`, w.Body.String())

	svc.PictureFunc = func(ctx context.Context) (string, bool) { return pixel, true }

	w = httptest.NewRecorder()
	handler.GetPicture(w, httptest.NewRequest("GET", "/profile/picture", nil))

	var resp handlers.ProfilePictureResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.NotNil(t, resp.ImageData)
	assert.Equal(t, pixel, *resp.ImageData)
}

func TestSetPicture(t *testing.T) {
	svc := &handlers.MockProfileService{
		SetPictureFunc: func(ctx context.Context, dataURL string) (models.Result, error) {
			if dataURL != pixel {
				return models.Fail(services.MsgPictureNotImage), nil
			}
			return models.OK(services.MsgPictureUpdated), nil
		},
	}
	handler := handlers.NewProfileHandler(svc, discardLogger())

	w := httptest.NewRecorder()
	handler.SetPicture(w, handlers.NewTestRequest(t, "PUT", "/profile/picture", handlers.ProfilePictureRequest{ImageData: pixel}))
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	handler.SetPicture(w, handlers.NewTestRequest(t, "PUT", "/profile/picture", handlers.ProfilePictureRequest{ImageData: "data:text/plain,hi"}))

	var resp models.Result
	handlers.AssertJSONResponse(t, w, 400, &resp)
	assert.Equal(t, services.MsgPictureNotImage, resp.Message)
}

func TestDeletePicture(t *testing.T) {
	handler := handlers.NewProfileHandler(&handlers.MockProfileService{}, discardLogger())

	w := httptest.NewRecorder()
	handler.DeletePicture(w, httptest.NewRequest("DELETE", "/profile/picture", nil))

	var resp models.Result
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, services.MsgPictureRemoved, resp.Message)
}
