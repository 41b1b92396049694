package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cryptograss/stonemint/pkg/showminting"
)

type (
	ContractInfoResponse struct {
		Address      string `json:"address" example:"0xdFa0f0633514d10Dab3FB9B2bcac17f0b883ee0a"`
		ChainName    string `json:"chainName" example:"optimism-sepolia"`
		ChainID      uint64 `json:"chainId,string" example:"11155420"`
		Function     string `json:"function" example:"makeShowAvailableForStoneMinting"`
		ExplorerLink string `json:"explorerLink" example:"https://sepolia-optimism.etherscan.io/address/0xdFa0f0633514d10Dab3FB9B2bcac17f0b883ee0a#code"`
		ProjectID    string `json:"projectId"`
	}

	// SubmitShowRequest carries the form fields as typed into the form.
	SubmitShowRequest struct {
		ArtistID      string `json:"artist_id" example:"7"`
		BlockHeight   string `json:"blockheight" example:"18000000"`
		Shapes        string `json:"shapes" example:"1\n2\n3"`
		NumberOfSets  string `json:"numberOfSets" example:"3"`
		StonePriceEth string `json:"stonePriceEth" example:"0.05"`
		RabbitSecrets string `json:"rabbitSecrets" example:"alpha\nbravo"`
	}

	SubmitShowResponse struct {
		TxHash      common.Hash    `json:"txHash" swaggertype:"string" example:"0x2f1a0e1c8dbe0e5b1e28ff83e0e6ab8fc7e0f9a5b4d3c2b1a09f8e7d6c5b4a39"`
		From        common.Address `json:"from" swaggertype:"string" example:"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"`
		ExplorerURL string         `json:"explorerUrl"`
	}

	HashSecretsRequest struct {
		Secrets string `json:"secrets" example:"alpha\nbravo"`
	}

	HashSecretsResponse struct {
		Hashes []common.Hash `json:"hashes" swaggertype:"array,string"`
	}
)

const maxJSONSize = 64 * 1024

// @Summary Contract the form submits to
// @Id 1
// @version 1.0
// @produce application/json
// @Success 200 {object} ContractInfoResponse
// @Router /contract [get]
func (s *Server) contractInfo(w http.ResponseWriter, r *http.Request) {
	cfg := s.adapter.Config()
	s.rw.WriteResponse(w, ContractInfoResponse{
		Address:      cfg.ContractAddress,
		ChainName:    cfg.ChainName,
		ChainID:      cfg.ChainID,
		Function:     cfg.FunctionName,
		ExplorerLink: s.adapter.ExplorerLink(),
		ProjectID:    cfg.ProjectID,
	})
}

// @Summary Make show available for stone minting
// @Id 2
// @version 1.0
// @accept application/json
// @produce application/json
// @Param request body SubmitShowRequest true "form fields"
// @Success 200 {object} SubmitShowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /shows [post]
func (s *Server) submitShow(w http.ResponseWriter, r *http.Request) {
	req := &SubmitShowRequest{}
	if err := decodeJSON(w, r, req); err != nil {
		log.Debug("error parsing POST /shows request: %v", err)
		s.rw.ErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	handle, err := s.adapter.CollectAndSubmit(r.Context(), req.fields())
	if err != nil {
		status := statusOf(err)
		if status == http.StatusBadGateway {
			log.Error("error on POST /shows: %v", err)
		}
		s.rw.writeError(w, status, s.errorResponse(err))
		return
	}
	s.rw.WriteResponse(w, SubmitShowResponse{
		TxHash:      handle.TxHash,
		From:        handle.From,
		ExplorerURL: handle.ExplorerURL,
	})
}

// @Summary Keccak-256 hashes of newline separated secrets
// @Id 3
// @version 1.0
// @accept application/json
// @produce application/json
// @Param request body HashSecretsRequest true "secrets, one per line"
// @Success 200 {object} HashSecretsResponse
// @Failure 400 {object} ErrorResponse
// @Router /secrets/hash [post]
func (s *Server) hashSecrets(w http.ResponseWriter, r *http.Request) {
	req := &HashSecretsRequest{}
	if err := decodeJSON(w, r, req); err != nil {
		s.rw.ErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	secrets, err := showminting.ParseSecrets(req.Secrets, s.adapter.CollectOptions())
	if err != nil {
		s.rw.InvalidParamResponse(w, "secrets", err)
		return
	}
	s.rw.WriteResponse(w, HashSecretsResponse{Hashes: showminting.HashSecrets(secrets)})
}

func (r *SubmitShowRequest) fields() showminting.Fields {
	return showminting.Fields{
		showminting.FieldArtistID:      r.ArtistID,
		showminting.FieldBlockHeight:   r.BlockHeight,
		showminting.FieldShapes:        r.Shapes,
		showminting.FieldNumberOfSets:  r.NumberOfSets,
		showminting.FieldStonePriceEth: r.StonePriceEth,
		showminting.FieldSecrets:       r.RabbitSecrets,
	}
}

func (s *Server) errorResponse(err error) ErrorResponse {
	errs := flattenErrors(err)
	if len(errs) == 1 {
		return ErrorResponse{Message: errs[0].Error()}
	}
	resp := ErrorResponse{Message: "invalid form input"}
	for _, e := range errs {
		resp.Details = append(resp.Details, e.Error())
	}
	return resp
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("failed to decode request body: unexpected data after JSON object")
	}
	return nil
}
