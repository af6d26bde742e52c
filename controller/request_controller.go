package controller

import (
	"net/http"

	"workcafe/mail"
	"workcafe/metrics"
	"workcafe/model"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const msgRequestFailed = "Your request could not be sent, please try again later."

// RequestController handles visitor proposals. It never writes to the
// cafe store; a valid submission only produces an e-mail.
type RequestController struct {
	Renderer
	Notifier  *mail.CafeRequestNotifier
	Recipient string
	Metrics   *metrics.Metrics
}

func (h *RequestController) RequestCafe(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.requestForm(c, http.StatusOK, model.CafeRequest{}, gin.H{"msg_sent": false})
		return
	}

	var req model.CafeRequest
	err := c.ShouldBind(&req)
	if c.ContentType() != binding.MIMEJSON {
		readAmenities(c, &req.CafeFields)
	}
	clearNonFinite(&req.CafeFields)
	if err != nil {
		h.requestForm(c, http.StatusBadRequest, req, gin.H{"msg_sent": false, "errors": fieldErrors(err)})
		return
	}

	err = h.Notifier.SendCafeRequest(c.Request.Context(), h.Recipient, req)
	h.Metrics.MailDispatch(err)
	if err != nil {
		utils.Log.WithError(err).WithField("cafe", req.Name).Error("cafe request e-mail failed")
		h.requestForm(c, http.StatusBadGateway, req, gin.H{"msg_sent": false, "message": msgRequestFailed})
		return
	}

	h.requestForm(c, http.StatusOK, model.CafeRequest{}, gin.H{"msg_sent": true})
}

func (h *RequestController) requestForm(c *gin.Context, status int, form model.CafeRequest, data gin.H) {
	data["form"] = form
	h.page(c, status, "req_cafe", data)
}
