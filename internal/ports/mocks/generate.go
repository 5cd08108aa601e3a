//go:generate mockgen -source=../queue_channel.go -destination=./mock_queue_channel.go -package=mocks
//go:generate mockgen -source=../logger.go        -destination=./mock_logger.go        -package=mocks

package mocks
