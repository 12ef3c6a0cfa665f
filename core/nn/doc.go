// Package nn implements the trained sequence models served by the
// inference engine: an LSTM with temporal attention predicting
// remaining useful life, and a 1-D convolutional autoencoder scoring
// reconstruction error for zero-day anomaly detection. Models are
// materialized from JSON checkpoint artifacts through a kind registry;
// weights are immutable after load so a resident model may be scored
// concurrently.
package nn
