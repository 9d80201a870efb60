package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) readField(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected secret shape at %s", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault: field %s missing at %s", field, path)
	}
	return value, nil
}

func (sm *SecretManager) GetDatabaseCredentials() (string, error) {
	return sm.readField("secret/data/database", "connection_string")
}

func (sm *SecretManager) GetOpenAIAPIKey() (string, error) {
	return sm.readField("secret/data/openai", "api_key")
}

func (sm *SecretManager) GetDeepgramAPIKey() (string, error) {
	return sm.readField("secret/data/deepgram", "api_key")
}

func (sm *SecretManager) GetStripeAPIKey() (string, error) {
	return sm.readField("secret/data/stripe", "api_key")
}

func (sm *SecretManager) GetSendGridAPIKey() (string, error) {
	return sm.readField("secret/data/sendgrid", "api_key")
}
