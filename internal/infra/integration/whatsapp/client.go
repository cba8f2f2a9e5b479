package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com/v21.0"

// Client é um proxy fino para a Graph API da Meta, com as credenciais
// de uma instância específica.
type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(accessToken, phoneNumberID string) *Client {
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneNumberID,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SendTemplate envia uma mensagem de template e retorna o wamid,
// que vira a chave do ledger de entrega.
func (c *Client) SendTemplate(ctx context.Context, input SendTemplateInput) (string, error) {
	if c.accessToken == "" || c.phoneID == "" {
		return "", fmt.Errorf("whatsapp: instância sem credenciais configuradas")
	}

	lang := input.LanguageCode
	if lang == "" {
		lang = "pt_BR"
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": lang,
			},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: erro na chamada à Graph API: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("whatsapp: resposta inesperada da Graph API (status %d)", resp.StatusCode)
	}

	if result.Error != nil {
		cls := ClassifyError(result.Error.Code)
		log.Printf("❌ WhatsApp: envio recusado (code %d): %s", result.Error.Code, result.Error.Message)
		return "", fmt.Errorf("whatsapp: %s", cls.UserMessage)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	if len(result.Messages) == 0 {
		return "", fmt.Errorf("whatsapp: resposta sem message id")
	}

	log.Printf("✅ WhatsApp: mensagem enviada para %s (wamid %s)", input.PhoneNumber, result.Messages[0].ID)
	return result.Messages[0].ID, nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
