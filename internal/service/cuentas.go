package service

import (
	"time"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// ── Model → aging ─────────────────────────────────────────────────────────────

func antiguedadNota(n *model.NotaVenta, al time.Time) cartera.Antiguedad {
	abonos := make([]cartera.Abono, len(n.Pagos))
	for i, p := range n.Pagos {
		abonos[i] = cartera.Abono{Importe: p.Importe, Fecha: p.Fecha}
	}
	return cartera.Calcular(cartera.Documento{Total: n.Total, Fecha: n.Fecha, DiasCredito: n.DiasCredito}, abonos, al)
}

func antiguedadCompra(c *model.Compra, al time.Time) cartera.Antiguedad {
	abonos := make([]cartera.Abono, len(c.Pagos))
	for i, p := range c.Pagos {
		abonos[i] = cartera.Abono{Importe: p.Importe, Fecha: p.Fecha}
	}
	return cartera.Calcular(cartera.Documento{Total: c.Total, Fecha: c.Fecha, DiasCredito: c.DiasPago}, abonos, al)
}

// ── Model → DTO ───────────────────────────────────────────────────────────────

func cuentaDeNota(n *model.NotaVenta, al time.Time) dto.CuentaResponse {
	r := dto.CuentaResponse{
		ID:            n.ID.String(),
		NumeroFactura: n.NumeroFactura,
		ContraparteID: n.ClienteID.String(),
		Fecha:         fechaStr(n.Fecha),
		DiasCredito:   n.DiasCredito,
		Antiguedad:    antiguedadNota(n, al),
	}
	if n.Cliente != nil {
		r.Contraparte = n.Cliente.Empresa
		r.Contacto = n.Cliente.NombreContacto
		r.Correo = n.Cliente.Correo
		r.Telefono = n.Cliente.Telefono
	}
	return r
}

func cuentaDeCompra(c *model.Compra, al time.Time) dto.CuentaResponse {
	r := dto.CuentaResponse{
		ID:            c.ID.String(),
		NumeroFactura: c.NumeroFactura,
		ContraparteID: c.ProveedorID.String(),
		Fecha:         fechaStr(c.Fecha),
		DiasCredito:   c.DiasPago,
		Antiguedad:    antiguedadCompra(c, al),
	}
	if c.Proveedor != nil {
		r.Contraparte = c.Proveedor.Nombre
		r.Contacto = c.Proveedor.Contacto
		r.Correo = c.Proveedor.Correo
		r.Telefono = c.Proveedor.Telefono
	}
	return r
}

func pagoResponse(p *model.Pago) dto.PagoResponse {
	r := dto.PagoResponse{
		ID:             p.ID.String(),
		DocumentoID:    p.NotaVentaID.String(),
		Fecha:          fechaStr(p.Fecha),
		Importe:        p.Importe,
		MetodoPago:     p.MetodoPago,
		Referencia:     p.Referencia,
		ComprobanteURL: p.ComprobanteURL,
		Notas:          p.Notas,
	}
	if p.NotaVenta != nil {
		r.NumeroFactura = p.NotaVenta.NumeroFactura
		if p.NotaVenta.Cliente != nil {
			r.Contraparte = p.NotaVenta.Cliente.Empresa
		}
	}
	return r
}

func pagoCompraResponse(p *model.PagoCompra) dto.PagoResponse {
	r := dto.PagoResponse{
		ID:             p.ID.String(),
		DocumentoID:    p.CompraID.String(),
		Fecha:          fechaStr(p.Fecha),
		Importe:        p.Importe,
		MetodoPago:     p.MetodoPago,
		Referencia:     p.Referencia,
		ComprobanteURL: p.ComprobanteURL,
		Notas:          p.Notas,
	}
	if p.Compra != nil {
		r.NumeroFactura = p.Compra.NumeroFactura
		if p.Compra.Proveedor != nil {
			r.Contraparte = p.Compra.Proveedor.Nombre
		}
	}
	return r
}

// validarPago checks the payment fields before any write.
func validarPago(req dto.RegistrarPagoRequest) (time.Time, error) {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return time.Time{}, err
	}
	if !req.Importe.IsPositive() {
		return time.Time{}, invalido("importe", "debe ser mayor a cero")
	}
	if req.Importe.Exponent() < -2 {
		return time.Time{}, invalido("importe", "máximo dos decimales")
	}
	if !enLista(req.MetodoPago, model.MetodosPago) {
		return time.Time{}, invalido("metodo_pago", "método %q no soportado", req.MetodoPago)
	}
	if req.DocumentoID == "" && req.NumeroFactura == "" {
		return time.Time{}, invalido("documento_id", "se requiere documento_id o numero_factura")
	}
	return fecha, nil
}
