// cmd/checkout-cli/main.go
package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/mq"
	"eshop/internal/service/order/domain"
)

// 从 stdin 读取一个 CheckoutRequested JSON 并写入结算主题，用于本地联调。
//
//	echo '{"basketId":1,"shippingAddress":{"street":"123 Main St","city":"Kent"}}' | checkout-cli
func main() {
	logger.Init("checkout-cli", getEnv("LOG_LEVEL", "info"))

	brokers := strings.Split(getEnv("ORDER_QUEUE_CONNECTION", "localhost:9092"), ",")
	topic := getEnv("CHECKOUT_TOPIC", "checkout-requested")

	var event domain.CheckoutRequested
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		log.Fatal().Err(err).Msg("read checkout request from stdin")
	}
	if event.BasketID <= 0 {
		log.Fatal().Int64("basket_id", event.BasketID).Msg("basketId must be positive")
	}
	if event.RequestID == "" {
		event.RequestID = uuid.New().String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Fatal().Err(err).Msg("marshal checkout request")
	}

	writer := mq.NewKafkaWriter(brokers, topic, 10*time.Second, mq.DefaultRetryPolicy())
	defer writer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := mq.ProduceMessage(ctx, writer, []byte(strconv.FormatInt(event.BasketID, 10)), payload); err != nil {
		log.Fatal().Err(err).Str("topic", topic).Msg("publish checkout request")
	}
	log.Info().
		Str("request_id", event.RequestID).
		Int64("basket_id", event.BasketID).
		Str("topic", topic).
		Int("bytes", len(payload)).
		Msg("✅ Checkout request published")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
