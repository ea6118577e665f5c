// Package mqtt provides MQTT communication capabilities for the bot.
// It supports publish/subscribe patterns with request/response functionality,
// bridges dispatched events to the broker and serves remote control topics.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultBaseTopic prefixes every topic when none is configured
const DefaultBaseTopic = "discmod"

const connectTimeout = 5 * time.Second

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// Options holds the broker connection settings
type Options struct {
	Host      string
	Port      string
	Username  string
	Password  string
	ClientID  string
	BaseTopic string
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client           mqtt.Client
	responseHandlers map[string]func(MqttResponse)
	mu               sync.RWMutex
	clientID         string
	base             string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(opts Options) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(opts)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator and connects it
func NewMqttCommunicator(o Options) *MqttCommunicator {
	uniqueID := fmt.Sprintf("%s_%s", o.ClientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", o.Host, o.Port)).
		SetClientID(uniqueID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOrderMatters(false).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", o.ClientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc := newWithClient(mqtt.NewClient(opts), o.ClientID, o.BaseTopic)

	// with ConnectRetry the token only completes once the broker answers
	token := mc.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		logger.Warn(fmt.Sprintf("Broker MQTT %s:%s no disponible, reintentando en segundo plano", o.Host, o.Port), "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

func newWithClient(client mqtt.Client, clientID, base string) *MqttCommunicator {
	base = strings.Trim(base, "/")
	if base == "" {
		base = DefaultBaseTopic
	}
	return &MqttCommunicator{
		client:           client,
		responseHandlers: make(map[string]func(MqttResponse)),
		clientID:         clientID,
		base:             base,
	}
}

// BaseTopic returns the prefix shared by every topic of this communicator
func (mc *MqttCommunicator) BaseTopic() string {
	return mc.base
}

// Topic joins parts below the base topic
func (mc *MqttCommunicator) Topic(parts ...string) string {
	return strings.Join(append([]string{mc.base}, parts...), "/")
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	token.Wait()
	return token.Error()
}

// Request sends a request and waits for a response
func (mc *MqttCommunicator) Request(topic string, payload interface{}, timeout time.Duration) (interface{}, error) {
	correlationID := uuid.New().String()
	requestTopic := mc.Topic("request", topic)
	responseTopic := mc.Topic("response", topic, correlationID)

	responseChan := make(chan MqttResponse, 1)
	errChan := make(chan error, 1)

	mc.mu.Lock()
	mc.responseHandlers[correlationID] = func(response MqttResponse) {
		select {
		case responseChan <- response:
		default:
		}
	}
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		delete(mc.responseHandlers, correlationID)
		mc.mu.Unlock()
		mc.client.Unsubscribe(responseTopic)
	}()

	token := mc.client.Subscribe(responseTopic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			select {
			case errChan <- err:
			default:
			}
			return
		}

		mc.mu.RLock()
		handler, exists := mc.responseHandlers[response.CorrelationID]
		mc.mu.RUnlock()

		if exists {
			handler(response)
		}
	})

	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	request := MqttRequest{
		CorrelationID: correlationID,
		Payload:       payload,
	}

	if err := mc.Publish(requestTopic, request); err != nil {
		return nil, err
	}

	select {
	case response := <-responseChan:
		if response.Error != "" {
			return nil, fmt.Errorf("%s", response.Error)
		}
		return response.Data, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", topic)
	}
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) error {
	topic := mc.Topic("request", requestTopic)
	requestPrefix := mc.Topic("request") + "/"

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var request MqttRequest
		if err := json.Unmarshal(msg.Payload(), &request); err != nil {
			logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
			return
		}

		actualTopic := strings.TrimPrefix(msg.Topic(), requestPrefix)
		responseTopic := mc.Topic("response", actualTopic, request.CorrelationID)

		payloadMap := make(map[string]interface{})
		if pm, ok := request.Payload.(map[string]interface{}); ok {
			payloadMap = pm
		}
		payloadMap["_topic"] = actualTopic

		response := MqttResponse{CorrelationID: request.CorrelationID}
		data, err := safeCall(callback, payloadMap)
		if err != nil {
			response.Error = err.Error()
		} else {
			response.Data = data
		}

		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Error(fmt.Sprintf("Error publicando la respuesta en %s: %v", responseTopic, err), "MQTT")
		}
	})

	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
		return token.Error()
	}
	return nil
}

// safeCall runs a request handler, turning a panic into an error response
func safeCall(callback RequestHandler, payload map[string]interface{}) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Panic en el handler MQTT: %v", r), "MQTT")
			data, err = nil, fmt.Errorf("internal error")
		}
	}()
	return callback(payload)
}

// Subscribe subscribes to a topic with a message handler
func (mc *MqttCommunicator) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
